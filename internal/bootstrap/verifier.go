package bootstrap

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"github.com/luxbiz/biz-optimizer/config"
	"github.com/luxbiz/biz-optimizer/internal/auth"
)

// NewVerifier picks the identity verifier for the configured auth mode.
// Firebase mode loads the Admin SDK from a service account file.
func NewVerifier(ctx context.Context, cfg *config.AuthConfig) (auth.Verifier, error) {
	switch cfg.Mode {
	case config.AuthModeHMAC:
		return auth.NewHMACVerifier(cfg.HMACSecret), nil
	case config.AuthModeFirebase:
		fb, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(cfg.FirebaseCredentialsPath))
		if err != nil {
			return nil, fmt.Errorf("firebase app: %w", err)
		}
		client, err := fb.Auth(ctx)
		if err != nil {
			return nil, fmt.Errorf("firebase auth client: %w", err)
		}
		return auth.NewFirebaseVerifier(client), nil
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Mode)
	}
}

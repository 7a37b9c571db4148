package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/clerk/clerk-sdk-go/v2"
	clerkuser "github.com/clerk/clerk-sdk-go/v2/user"
)

// RoleUpdater pushes the admin flag back to clerk public metadata so the
// next session token carries it.
type RoleUpdater interface {
	SetAdmin(ctx context.Context, userID string, isAdmin bool) error
}

type ClerkRoleUpdater struct{}

// NewRoleUpdater returns the clerk backend updater, or a no-op without CLERK_SECRET_KEY.
func NewRoleUpdater(secretKey string) RoleUpdater {
	if secretKey == "" {
		log.Println("[WARN] CLERK_SECRET_KEY not set, role changes stay local")
		return NopRoleUpdater{}
	}
	clerk.SetKey(secretKey)
	return ClerkRoleUpdater{}
}

func (ClerkRoleUpdater) SetAdmin(ctx context.Context, userID string, isAdmin bool) error {
	raw, err := json.Marshal(map[string]any{"isAdmin": isAdmin})
	if err != nil {
		return err
	}
	_, err = clerkuser.UpdateMetadata(ctx, userID, &clerkuser.UpdateMetadataParams{
		PublicMetadata: clerk.JSONRawMessage(raw),
	})
	return err
}

type NopRoleUpdater struct{}

func (NopRoleUpdater) SetAdmin(context.Context, string, bool) error { return nil }

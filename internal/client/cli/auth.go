package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/talentlink/talentlink-client/internal/client/api"
	"github.com/talentlink/talentlink-client/internal/client/models"
	"github.com/talentlink/talentlink-client/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts the user for credentials, exchanges them for a token pair,
// and installs the session. The notification stream follows automatically
// via the auth-change listener.
//
// The password is securely wiped before returning.
func (a *App) Login(ctx context.Context) error {
	if a.isLoggedIn() {
		printlnFn("Already logged in; use 'logout' first")
		return nil
	}

	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	result, err := a.api.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, api.ErrUnavailable) {
			log.Printf("Server unavailable, try again later")
		} else {
			log.Printf("Login unsuccessfull: %s", err.Error())
		}
		return err
	}

	var user models.User
	if err := json.Unmarshal(result.User, &user); err != nil {
		return fmt.Errorf("failed to decode user profile: %w", err)
	}
	user.Raw = append(json.RawMessage(nil), result.User...)

	if err := a.session.Login(ctx, &user, result.AccessToken, result.RefreshToken, result.UserType); err != nil {
		log.Printf("Login unsuccessfull: %s", err.Error())
		return err
	}

	log.Printf("Login successfull")
	return nil
}

// Logout drops the local session and best-effort notifies the backend.
// Topic subscriptions are released so a later login starts clean.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Not logged in")
		return nil
	}

	for topic, unsub := range a.subs {
		unsub()
		delete(a.subs, topic)
	}

	a.session.Logout(ctx, "")
	printlnFn("Logged out")
	return nil
}

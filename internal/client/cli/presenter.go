package cli

import (
	"context"
	"fmt"

	"github.com/talentlink/talentlink-client/internal/client/services"
)

// terminalPresenter prints push notifications straight to the terminal.
// There is no platform notification center in a CLI, so both surfaces end
// up on stdout.
type terminalPresenter struct{}

func (terminalPresenter) Notify(title, message string) {
	fmt.Printf("\n[%s] %s\n", title, message)
}

func (terminalPresenter) Toast(message string) {
	fmt.Printf("\n* %s\n", message)
}

// terminalPermissionAPI reports no platform permission surface, which keeps
// the permission gate quiet in a terminal session.
type terminalPermissionAPI struct{}

func (terminalPermissionAPI) Supported() bool                  { return false }
func (terminalPermissionAPI) State() services.PermissionState  { return services.PermissionDefault }
func (terminalPermissionAPI) Request(ctx context.Context) (services.PermissionState, error) {
	return services.PermissionDefault, nil
}

package cli

import (
	"os"

	"promptpack/internal/app"
)

func newAppService() app.Service {
	return app.NewService()
}

func userHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}

// Command devicetoken prints the bearer token an enrollment device uses for
// the device API.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/vibe-gaming/enrollment/internal/config"
	"github.com/vibe-gaming/enrollment/pkg/auth"
)

func main() {
	deviceID := flag.String("device", "", "enrollment device id, e.g. esp32-front-desk")
	flag.Parse()

	if *deviceID == "" {
		fmt.Fprintln(os.Stderr, "-device is required")
		os.Exit(2)
	}

	var cfg config.DeviceAuthConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "cannot read device auth config: %s\n", err)
		os.Exit(1)
	}

	manager, err := auth.NewManager(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "auth manager creation err: %s\n", err)
		os.Exit(1)
	}

	token, ttl, err := manager.NewDeviceToken(*deviceID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "issue device token: %s\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "token for %s valid for %s\n", *deviceID, ttl)
	fmt.Println(token)
}

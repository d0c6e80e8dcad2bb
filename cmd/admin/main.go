package main

import (
	"flag"
	"fmt"
	"holdemtable-server/internal/jwt"
	"os"

	"github.com/sirupsen/logrus"
)

var command = flag.String("c", "token", "specifies the command (token)")
var playerID = flag.Int64("player-id", 0, "the player ID to sign a token for")

func main() {
	flag.Parse()

	switch *command {
	case "token":
		if *playerID <= 0 {
			logrus.Fatal("-player-id is required")
		}

		jwt.LoadKeys()
		token, err := jwt.Sign(*playerID)
		if err != nil {
			logrus.WithError(err).Fatal("could not sign token")
		}

		fmt.Println(token)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", *command)
		os.Exit(1)
	}
}

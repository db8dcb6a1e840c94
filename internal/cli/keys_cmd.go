// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// keys_cmd.go - Identity management commands.
//
// Command: keys
// Aliases: key, identity
//
// Examples:
//   nostrum keys generate               Create a new keypair
//   nostrum keys generate --passphrase  Encrypt the stored key
//   nostrum keys import nsec1...        Import an existing key
//   nostrum keys show                   Show the stored public key
//   nostrum keys export                 Print the secret key

package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/jeranaias/nostrum/internal/keys"
)

// HandleKeys dispatches the keys subcommands.
func HandleKeys(args Args) {
	dir, err := DataDir()
	if err != nil {
		exitError(err)
	}

	parser := NewArgParser(args.Raw)
	switch parser.Subcommand() {
	case "generate", "gen":
		handleKeysGenerate(dir, parser)
	case "import":
		handleKeysImport(dir, parser)
	case "show", "":
		handleKeysShow(dir)
	case "export":
		handleKeysExport(dir)
	default:
		exitError(fmt.Errorf("unknown keys subcommand %q (generate, import, show, export)", parser.Subcommand()))
	}
}

func handleKeysGenerate(dir string, parser *ArgParser) {
	if keys.Exists(dir) && !parser.BoolFlag("force") {
		exitError(fmt.Errorf("an identity already exists; pass --force to overwrite it"))
	}

	id, err := keys.Generate()
	if err != nil {
		exitError(err)
	}

	passphrase := ""
	if parser.BoolFlag("passphrase") {
		passphrase, err = readNewPassphrase()
		if err != nil {
			exitError(err)
		}
	}

	if err := keys.Save(dir, id, passphrase); err != nil {
		exitError(err)
	}

	fmt.Println("Generated a new identity.")
	fmt.Println(statusLine("Npub", id.Npub(), valueGreenStyle))
	fmt.Println()
	fmt.Println(valueYellowStyle.Render("Back up your secret key now: `nostrum keys export`."))
	fmt.Println(valueYellowStyle.Render("Anyone holding it controls this identity forever."))
}

func handleKeysImport(dir string, parser *ArgParser) {
	secret := parser.Positional(1)
	if secret == "" {
		// Read from stdin so the key stays out of shell history.
		if err := RequiresTTY("import a key"); err != nil {
			exitError(err)
		}
		pw, err := ReadPassword("Secret key (nsec or hex): ")
		if err != nil {
			exitError(err)
		}
		secret = pw
	}

	id, err := keys.ParseSecretKey(secret)
	if err != nil {
		exitError(err)
	}

	if keys.Exists(dir) && !parser.BoolFlag("force") {
		exitError(fmt.Errorf("an identity already exists; pass --force to overwrite it"))
	}

	passphrase := ""
	if parser.BoolFlag("passphrase") {
		passphrase, err = readNewPassphrase()
		if err != nil {
			exitError(err)
		}
	}

	if err := keys.Save(dir, id, passphrase); err != nil {
		exitError(err)
	}
	fmt.Println("Imported identity.")
	fmt.Println(statusLine("Npub", id.Npub(), valueGreenStyle))
}

func handleKeysShow(dir string) {
	if !keys.Exists(dir) {
		fmt.Println("No identity stored. Run `nostrum keys generate`.")
		return
	}

	id, err := LoadIdentity(dir)
	if err != nil {
		exitError(err)
	}
	fmt.Println(statusLine("Npub", id.Npub(), valueStyle))
	fmt.Println(statusLine("Hex", id.PubKey, valueDimStyle))
}

func handleKeysExport(dir string) {
	if !keys.Exists(dir) {
		exitError(fmt.Errorf("no identity stored"))
	}

	fmt.Println(valueYellowStyle.Render("This prints your SECRET key. Anyone who sees it owns your identity."))
	if !confirm("Continue? [y/N] ") {
		fmt.Println("Aborted.")
		return
	}

	id, err := LoadIdentity(dir)
	if err != nil {
		exitError(err)
	}
	if !id.CanSign() {
		exitError(fmt.Errorf("stored identity is read-only (no secret key)"))
	}
	fmt.Println(id.Nsec())
}

// readNewPassphrase prompts twice and requires a match.
func readNewPassphrase() (string, error) {
	first, err := ReadPassword("New passphrase: ")
	if err != nil {
		return "", err
	}
	if first == "" {
		return "", fmt.Errorf("empty passphrase")
	}
	second, err := ReadPassword("Repeat passphrase: ")
	if err != nil {
		return "", err
	}
	if first != second {
		return "", fmt.Errorf("passphrases do not match")
	}
	return first, nil
}

// confirm asks a yes/no question on the terminal, defaulting to no.
func confirm(prompt string) bool {
	if !CanPrompt() {
		return false
	}
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

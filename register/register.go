// Package register implements the `register` subcommand: it writes a launch
// entry for this binary into an MCP client configuration file, so the client
// can start the indexer over stdio.
package register

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// serverEntry is the launch stanza written under "mcpServers".
type serverEntry struct {
	Command string   `json:"command"`
	Args    []string `json:"args,omitempty"`
}

// Run executes the register subcommand. serverName is the key written into
// the client config; args is everything after the subcommand itself. Exits
// the process on failure.
func Run(serverName string, args []string) {
	if len(args) == 0 {
		printUsage()
		os.Exit(2)
	}
	scope := args[0]
	if scope != "project" && scope != "user" {
		fmt.Fprintf(os.Stderr, "Error: unknown scope %q (want \"project\" or \"user\")\n", scope)
		printUsage()
		os.Exit(2)
	}

	if err := install(serverName, scope, args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func install(serverName string, scope string, args []string) error {
	positional, forwarded := splitForwarded(args)

	configPath, err := configPathFor(scope, positional)
	if err != nil {
		return err
	}
	binary, err := binaryPath()
	if err != nil {
		return err
	}
	if err := upsertEntry(configPath, serverName, launchEntry(binary, forwarded)); err != nil {
		return err
	}

	fmt.Printf("Registered %q in %s\n", serverName, configPath)
	return nil
}

func printUsage() {
	binaryName := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage:\n")
	fmt.Fprintf(os.Stderr, "  %s register project [directory]        # write <directory>/.mcp.json (default: .)\n", binaryName)
	fmt.Fprintf(os.Stderr, "  %s register user                       # write ~/.claude.json\n", binaryName)
	fmt.Fprintf(os.Stderr, "  %s register project . -- -root /src    # args after -- go to the server\n", binaryName)
}

// DeriveServerName maps a binary path to the server key used in client
// configs: the base name with any ".exe" and "-mcp" suffixes stripped, so
// cppindex-mcp registers as "cppindex".
func DeriveServerName(binaryPath string) string {
	name := filepath.Base(binaryPath)
	name = strings.TrimSuffix(name, ".exe")
	return strings.TrimSuffix(name, "-mcp")
}

// splitForwarded separates subcommand arguments from server arguments at the
// "--" marker. Everything after the marker is stored verbatim in the launch
// entry.
func splitForwarded(args []string) (positional []string, forwarded []string) {
	for i, arg := range args {
		if arg == "--" {
			return args[:i], args[i+1:]
		}
	}
	return args, nil
}

func configPathFor(scope string, positional []string) (string, error) {
	if scope == "user" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("locating home directory: %w", err)
		}
		return filepath.Join(home, ".claude.json"), nil
	}

	directory := "."
	if len(positional) > 0 {
		directory = positional[0]
	}
	absDir, err := filepath.Abs(directory)
	if err != nil {
		return "", fmt.Errorf("resolving directory %s: %w", directory, err)
	}
	return filepath.Join(absDir, ".mcp.json"), nil
}

func binaryPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locating executable: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("resolving symlinks for %s: %w", exe, err)
	}
	return resolved, nil
}

// launchEntry builds the command stanza. Windows clients go through cmd /C
// so the entry launches without PATHEXT resolution.
func launchEntry(binary string, forwarded []string) serverEntry {
	if runtime.GOOS == "windows" {
		args := append([]string{"/C", binary}, forwarded...)
		return serverEntry{Command: "cmd", Args: args}
	}
	return serverEntry{Command: binary, Args: forwarded}
}

// upsertEntry merges the server entry into the config file, preserving every
// other registered server. The write goes through a temp file and rename so
// an interrupted run cannot truncate the client config.
func upsertEntry(configPath string, serverName string, entry serverEntry) error {
	config := map[string]any{
		"mcpServers": map[string]any{},
	}
	data, err := os.ReadFile(configPath)
	if err == nil {
		if err := json.Unmarshal(data, &config); err != nil {
			return fmt.Errorf("parsing %s: %w", configPath, err)
		}
	}

	servers, ok := config["mcpServers"].(map[string]any)
	if !ok {
		if _, present := config["mcpServers"]; present {
			return fmt.Errorf("mcpServers in %s is not an object", configPath)
		}
		servers = map[string]any{}
		config["mcpServers"] = servers
	}
	servers[serverName] = entry

	out, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	out = append(out, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(configPath), ".mcp-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, configPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing %s: %w", configPath, err)
	}
	return nil
}

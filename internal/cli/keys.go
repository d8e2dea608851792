package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/grazer/internal/config"
	"github.com/ppiankov/grazer/internal/platform"
)

var keysShow bool

// keysInput is where "keys set" reads a value given on stdin.
var keysInput io.Reader = os.Stdin

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage API keys in the OS keychain",
}

var keysSetCmd = &cobra.Command{
	Use:   "set PLATFORM [KEY]",
	Short: "Store an API key (read from stdin when KEY is omitted)",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  keysSetAction,
}

var keysGetCmd = &cobra.Command{
	Use:   "get PLATFORM",
	Short: "Show a stored API key, masked unless --show",
	Args:  cobra.ExactArgs(1),
	RunE:  keysGetAction,
}

var keysListCmd = &cobra.Command{
	Use:   "list",
	Short: "List platforms with a stored API key",
	Args:  cobra.NoArgs,
	RunE:  keysListAction,
}

var keysRemoveCmd = &cobra.Command{
	Use:     "remove PLATFORM",
	Aliases: []string{"rm"},
	Short:   "Delete a stored API key",
	Args:    cobra.ExactArgs(1),
	RunE:    keysRemoveAction,
}

func init() {
	keysGetCmd.Flags().BoolVar(&keysShow, "show", false, "print the full key")
	keysCmd.AddCommand(keysSetCmd, keysGetCmd, keysListCmd, keysRemoveCmd)
	rootCmd.AddCommand(keysCmd)
}

func keyStore() (config.SecretStore, error) {
	return openSecrets(resolveConfigDir())
}

func keysSetAction(_ *cobra.Command, args []string) error {
	name, err := platform.ParseName(args[0])
	if err != nil {
		return err
	}

	var value string
	if len(args) == 2 {
		value = args[1]
	} else {
		line, err := bufio.NewReader(keysInput).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read key: %w", err)
		}
		value = line
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return errors.New("key is empty")
	}

	st, err := keyStore()
	if err != nil {
		return err
	}
	if err := st.Set(string(name), value); err != nil {
		return err
	}
	fmt.Printf("Stored %s key (%s)\n", name, mask(value))
	return nil
}

func keysGetAction(_ *cobra.Command, args []string) error {
	name, err := platform.ParseName(args[0])
	if err != nil {
		return err
	}
	st, err := keyStore()
	if err != nil {
		return err
	}
	value, err := st.Get(string(name))
	if err != nil {
		return err
	}
	if keysShow {
		fmt.Println(value)
		return nil
	}
	fmt.Println(mask(value))
	return nil
}

func keysListAction(_ *cobra.Command, _ []string) error {
	st, err := keyStore()
	if err != nil {
		return err
	}
	keys, err := st.Keys()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		fmt.Println("No keys stored.")
		return nil
	}
	for _, k := range keys {
		fmt.Println(k)
	}
	return nil
}

func keysRemoveAction(_ *cobra.Command, args []string) error {
	name, err := platform.ParseName(args[0])
	if err != nil {
		return err
	}
	st, err := keyStore()
	if err != nil {
		return err
	}
	if err := st.Remove(string(name)); err != nil {
		return err
	}
	fmt.Printf("Removed %s key\n", name)
	return nil
}

// mask keeps the first and last four characters of long keys.
func mask(s string) string {
	if len(s) <= 8 {
		return strings.Repeat("*", len(s))
	}
	return s[:4] + strings.Repeat("*", len(s)-8) + s[len(s)-4:]
}

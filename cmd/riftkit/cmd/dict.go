package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/valdris/riftkit/pkg/hashdict"
)

// dictCmd represents the dict command
var dictCmd = &cobra.Command{
	Use:   "dict",
	Short: "Manage the hash dictionary",
	Long: `Manage the persistent dictionary mapping name hashes back to
human-readable names.`,
}

// dictLoadCmd represents the dict load command
var dictLoadCmd = &cobra.Command{
	Use:   "load <hashtable file>...",
	Short: "Load hashtable files into the dictionary",
	Long: `Load one or more hashtable files into the dictionary. Each line is
a hex hash and a name separated by a space; '#' starts a comment.

Example:
  riftkit dict load hashes.binfields.txt hashes.bintypes.txt`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dictDir, _ := cmd.Flags().GetString("dict-dir")
		dict, err := hashdict.Open(dictDir)
		if err != nil {
			fmt.Printf("Error opening dictionary: %v\n", err)
			return
		}
		defer dict.Close()

		total := 0
		for _, path := range args {
			loaded, err := dict.LoadFile(path)
			if err != nil {
				fmt.Printf("Error loading %s: %v\n", path, err)
				return
			}
			total += loaded
		}
		fmt.Printf("Loaded %d names\n", total)
	},
}

// dictLookupCmd represents the dict lookup command
var dictLookupCmd = &cobra.Command{
	Use:   "lookup <hash>...",
	Short: "Resolve hashes to names",
	Long: `Resolve one or more hex hashes to names using the dictionary.

Example:
  riftkit dict lookup 0x343dc0f7`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dictDir, _ := cmd.Flags().GetString("dict-dir")
		dict, err := hashdict.Open(dictDir)
		if err != nil {
			fmt.Printf("Error opening dictionary: %v\n", err)
			return
		}
		defer dict.Close()

		for _, arg := range args {
			raw := strings.TrimPrefix(strings.ToLower(arg), "0x")
			h, err := strconv.ParseUint(raw, 16, 32)
			if err != nil {
				fmt.Printf("0x%s <invalid hash>\n", raw)
				continue
			}
			if name, ok := dict.Lookup(uint32(h)); ok {
				fmt.Printf("0x%08x %s\n", uint32(h), name)
			} else {
				fmt.Printf("0x%08x <unknown>\n", uint32(h))
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(dictCmd)
	dictCmd.AddCommand(dictLoadCmd)
	dictCmd.AddCommand(dictLookupCmd)
}

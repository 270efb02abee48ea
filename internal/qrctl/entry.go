package qrctl

import (
	"encoding/json"
	"log"

	"github.com/spf13/cobra"
)

var entryCmd = &cobra.Command{
	Use:   "entry",
	Short: "Manage QR entries",
}

var entryCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an entry",
	Long:  "Creates an entry. The mode decides what the code encodes: URL (a link, direct or tokenized), Value (a record field) or Manual (literal text).",
	Run: func(cmd *cobra.Command, args []string) {
		body := map[string]string{}
		for _, f := range []string{
			"mode", "link-type", "custom-route", "target-url",
			"target-type", "target-id", "target-action",
			"source-type", "source-id", "source-field",
			"manual-content", "label-text",
		} {
			if v, _ := cmd.Flags().GetString(f); v != "" {
				body[jsonKey(f)] = v
			}
		}

		var out json.RawMessage
		if err := newClient(cmd).do("POST", "/api/entries", body, &out); err != nil {
			log.Fatal(err)
		}
		printJSON(out)
	},
}

var entryGetCmd = &cobra.Command{
	Use:   "get <entry-id>",
	Short: "Show an entry",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var out json.RawMessage
		if err := newClient(cmd).do("GET", "/api/entries/"+args[0], nil, &out); err != nil {
			log.Fatal(err)
		}
		printJSON(out)
	},
}

var entryComputeCmd = &cobra.Command{
	Use:   "compute <entry-id>",
	Short: "Compute and persist the entry's encoded content",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var out json.RawMessage
		if err := newClient(cmd).do("POST", "/api/entries/"+args[0]+"/compute", nil, &out); err != nil {
			log.Fatal(err)
		}
		printJSON(out)
	},
}

var entryGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Find or create the entry for an application record and compute it",
	Run: func(cmd *cobra.Command, args []string) {
		body := map[string]string{}
		for _, f := range []string{"record-type", "record-id", "link-type"} {
			if v, _ := cmd.Flags().GetString(f); v != "" {
				body[jsonKey(f)] = v
			}
		}

		var out json.RawMessage
		if err := newClient(cmd).do("POST", "/api/generate-for-record", body, &out); err != nil {
			log.Fatal(err)
		}
		printJSON(out)
	},
}

// jsonKey maps a flag name to the API's snake_case field name.
func jsonKey(flag string) string {
	out := make([]byte, 0, len(flag))
	for i := 0; i < len(flag); i++ {
		if flag[i] == '-' {
			out = append(out, '_')
			continue
		}
		out = append(out, flag[i])
	}
	return string(out)
}

func init() {
	rootCmd.AddCommand(entryCmd)
	entryCmd.AddCommand(entryCreateCmd)
	entryCmd.AddCommand(entryGetCmd)
	entryCmd.AddCommand(entryComputeCmd)
	entryCmd.AddCommand(entryGenerateCmd)

	entryGenerateCmd.Flags().String("record-type", "", "Application record type")
	entryGenerateCmd.Flags().String("record-id", "", "Application record ID")
	entryGenerateCmd.Flags().String("link-type", "", "Link type applied on creation (Direct, Token)")
	_ = entryGenerateCmd.MarkFlagRequired("record-type")
	_ = entryGenerateCmd.MarkFlagRequired("record-id")

	entryCreateCmd.Flags().StringP("mode", "m", "URL", "Access mode (URL, Value, Manual)")
	entryCreateCmd.Flags().StringP("link-type", "l", "Direct", "Link type for URL mode (Direct, Token)")
	entryCreateCmd.Flags().String("custom-route", "", "Explicit route overriding the derived one")
	entryCreateCmd.Flags().String("target-url", "", "Absolute target URL")
	entryCreateCmd.Flags().String("target-type", "", "Target record type")
	entryCreateCmd.Flags().String("target-id", "", "Target record ID")
	entryCreateCmd.Flags().String("target-action", "", "Target action (e.g. print)")
	entryCreateCmd.Flags().String("source-type", "", "Source record type (Value mode)")
	entryCreateCmd.Flags().String("source-id", "", "Source record ID (Value mode)")
	entryCreateCmd.Flags().String("source-field", "", "Source field name (Value mode)")
	entryCreateCmd.Flags().String("manual-content", "", "Literal content (Manual mode)")
	entryCreateCmd.Flags().String("label-text", "", "Caption shown with the code")
}

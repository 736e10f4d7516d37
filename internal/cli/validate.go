package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ksyq12/certboot/internal/config"
	"github.com/ksyq12/certboot/internal/errors"
	"github.com/ksyq12/certboot/internal/output"
)

// FieldResult is the validation outcome for one configuration key
type FieldResult struct {
	Field   string `json:"field"`
	Value   string `json:"value"`
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

func newValidateCmd(root *rootOptions) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration file fields",
		Long: `Check that domain is a fully-qualified name, email is a bare address,
and nginx_image and volume_prefix are set.

run does not perform these checks; use validate before running when in doubt.

Examples:
  certboot validate
  certboot validate --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, root, jsonOutput)
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	return cmd
}

func runValidate(cmd *cobra.Command, root *rootOptions, jsonOutput bool) error {
	s, err := loadSettings(cmd, root)
	if err != nil {
		return err
	}
	cfg, err := config.Load(s.ConfigPath())
	if err != nil {
		return err
	}

	results := fieldResults(cfg)
	invalid := 0
	for _, r := range results {
		if !r.Valid {
			invalid++
		}
	}

	if jsonOutput {
		if err := output.JSON(results); err != nil {
			return err
		}
	} else {
		rows := make([][]string, 0, len(results))
		for _, r := range results {
			status := "ok"
			if !r.Valid {
				status = "invalid"
			}
			rows = append(rows, []string{r.Field, r.Value, status, r.Message})
		}
		output.Table([]string{"FIELD", "VALUE", "STATUS", "MESSAGE"}, rows)
	}

	if invalid > 0 {
		if !jsonOutput {
			output.Error("%s has %d invalid field(s)", s.ConfigPath(), invalid)
		}
		return errors.Wrap(errors.ErrCodeValidation, fmt.Sprintf("%d field(s) failed validation", invalid), nil)
	}
	if !jsonOutput {
		output.Success("%s is valid", s.ConfigPath())
	}
	return nil
}

func fieldResults(cfg config.Config) []FieldResult {
	values := map[string]string{
		"domain":        cfg.Domain,
		"email":         cfg.Email,
		"nginx_image":   cfg.NginxImage,
		"volume_prefix": cfg.VolumePrefix,
	}
	messages := make(map[string]string)
	for _, err := range cfg.Validate() {
		var e *errors.Error
		if errors.As(err, &e) {
			messages[e.Field] = e.Message
		}
	}

	results := make([]FieldResult, 0, len(values))
	for _, key := range config.RequiredKeys() {
		msg, bad := messages[key]
		results = append(results, FieldResult{
			Field:   key,
			Value:   values[key],
			Valid:   !bad,
			Message: msg,
		})
	}
	return results
}

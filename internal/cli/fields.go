package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smartfarm/backend/internal/client"
	"github.com/spf13/cobra"
)

func newFieldsCmd(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "fields",
		Aliases: []string{"field", "f"},
		Short:   "Manage your fields",
	}
	cmd.AddCommand(
		newFieldsListCmd(opts),
		newFieldsGetCmd(opts),
		newFieldsCreateCmd(opts),
		newFieldsUpdateCmd(opts),
		newFieldsDeleteCmd(opts),
	)
	return cmd
}

func newFieldsListCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your fields, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fields, err := opts.farm.ListFields(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, fields)
		},
	}
}

func newFieldsGetCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "get <field-id>",
		Short: "Show one field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			field, err := opts.farm.GetField(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd, field)
		},
	}
}

func newFieldsCreateCmd(opts *Options) *cobra.Command {
	var in client.FieldInput
	var size string

	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Create a field",
		Example: `  farmctl fields create --name North --crop Corn --location "Lot 4" --size 2.5`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if size != "" {
				d, err := decimal.NewFromString(size)
				if err != nil {
					return fmt.Errorf("invalid --size %q: %w", size, err)
				}
				in.Size = &d
			}
			field, err := opts.farm.CreateField(cmd.Context(), in)
			if err != nil {
				return err
			}
			return printJSON(cmd, field)
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "Field name")
	cmd.Flags().StringVar(&in.CropType, "crop", "", "Crop type")
	cmd.Flags().StringVar(&in.Location, "location", "", "Location")
	cmd.Flags().StringVar(&size, "size", "", "Size in hectares")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("crop")
	_ = cmd.MarkFlagRequired("location")
	return cmd
}

func newFieldsUpdateCmd(opts *Options) *cobra.Command {
	var name, crop, location, size string

	cmd := &cobra.Command{
		Use:   "update <field-id>",
		Short: "Change the attributes given as flags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var in client.FieldUpdate
			flags := cmd.Flags()
			if flags.Changed("name") {
				in.Name = &name
			}
			if flags.Changed("crop") {
				in.CropType = &crop
			}
			if flags.Changed("location") {
				in.Location = &location
			}
			if flags.Changed("size") {
				d, err := decimal.NewFromString(size)
				if err != nil {
					return fmt.Errorf("invalid --size %q: %w", size, err)
				}
				in.Size = &d
			}

			field, err := opts.farm.UpdateField(cmd.Context(), id, in)
			if err != nil {
				return err
			}
			return printJSON(cmd, field)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&crop, "crop", "", "New crop type")
	cmd.Flags().StringVar(&location, "location", "", "New location")
	cmd.Flags().StringVar(&size, "size", "", "New size in hectares")
	return cmd
}

func newFieldsDeleteCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <field-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a field",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			msg, err := opts.farm.DeleteField(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]string{"message": msg})
		},
	}
}

func parseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid field id %q", s)
	}
	return id, nil
}

package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/cellmark/internal/db"
	"github.com/mithrel/cellmark/internal/host"
	"github.com/mithrel/cellmark/internal/present"
	"github.com/mithrel/cellmark/internal/util"
	"github.com/mithrel/cellmark/pkg/api"
)

// resolveField accepts a field ID or a (fuzzy) field name.
func resolveField(ctx context.Context, t host.Table, arg string) (api.FieldMeta, error) {
	fields, err := t.GetFieldMetaList(ctx)
	if err != nil {
		return api.FieldMeta{}, err
	}
	names := make([]string, len(fields))
	for i, f := range fields {
		if f.ID == arg {
			return f, nil
		}
		names[i] = f.Name
	}
	idx, ok := util.MatchName(arg, names)
	if !ok {
		return api.FieldMeta{}, fmt.Errorf("field %q in %s: %w", arg, t.Meta().Name, db.ErrNotFound)
	}
	return fields[idx], nil
}

// resolveRecord accepts a record ID or a 1-based row number.
func resolveRecord(ctx context.Context, t host.Table, arg string) (api.Record, error) {
	records, err := t.GetRecordList(ctx)
	if err != nil {
		return api.Record{}, err
	}
	for _, r := range records {
		if r.ID == arg {
			return r, nil
		}
	}
	if n, err := strconv.Atoi(strings.TrimPrefix(arg, "#")); err == nil && n >= 1 && n <= len(records) {
		return records[n-1], nil
	}
	return api.Record{}, fmt.Errorf("record %q in %s: %w", arg, t.Meta().Name, db.ErrNotFound)
}

func addOutputFlags(cmd *cobra.Command, output *string, noHeaders *bool, def string) {
	cmd.Flags().StringVar(output, "output", def, "output mode: plain|pretty|json|ndjson")
	_ = cmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"plain", "pretty", "json", "ndjson"}, cobra.ShellCompDirectiveNoFileComp
	})
	if noHeaders != nil {
		cmd.Flags().BoolVar(noHeaders, "noheaders", false, "hide column headers (plain/pretty)")
	}
}

func presentOptions(output string, noHeaders bool) (present.Options, error) {
	mode, ok := present.ParseMode(strings.ToLower(output))
	if !ok {
		return present.Options{}, fmt.Errorf("invalid --output: %s", output)
	}
	return present.Options{
		Mode:       mode,
		JSONIndent: false, // pretty-print via external tools like jq
		Headers:    !noHeaders,
	}, nil
}

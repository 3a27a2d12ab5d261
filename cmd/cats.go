package main

import (
	"context"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/quotes-cli/internal/cats"
)

var catsFeatures []string

var catsCmd = &cobra.Command{
	Use:   "cats",
	Short: "Manage the cats collection",
}

// withConsole connects to the cats database and runs fn. A server that
// cannot be reached is reported like any other unavailable operation; an
// invalid configuration is fatal.
func withConsole(cmd *cobra.Command, fn func(ctx context.Context, c *cats.Console) error) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	st, err := connectMongo(ctx, cfg.Mongo.CatsDatabase)
	if err != nil {
		return cats.NewConsole(nil, out).Report("connect", err)
	}
	defer st.Close(context.WithoutCancel(ctx)) //nolint:errcheck

	return fn(ctx, cats.NewConsole(cats.NewMongoRepository(st.Database()), out))
}

func parseAge(s string) (int, error) {
	age, err := strconv.Atoi(s)
	if err != nil || age < 0 {
		return 0, eris.Errorf("invalid age %q", s)
	}
	return age, nil
}

var catsAddCmd = &cobra.Command{
	Use:   "add NAME AGE",
	Short: "Add a cat",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		age, err := parseAge(args[1])
		if err != nil {
			return err
		}
		return withConsole(cmd, func(ctx context.Context, c *cats.Console) error {
			return c.Add(ctx, args[0], age, catsFeatures)
		})
	},
}

var catsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all cats",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withConsole(cmd, func(ctx context.Context, c *cats.Console) error {
			return c.List(ctx)
		})
	},
}

var catsFindCmd = &cobra.Command{
	Use:   "find NAME",
	Short: "Show a cat by name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withConsole(cmd, func(ctx context.Context, c *cats.Console) error {
			return c.Find(ctx, args[0])
		})
	},
}

var catsSetAgeCmd = &cobra.Command{
	Use:   "set-age NAME AGE",
	Short: "Update a cat's age",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		age, err := parseAge(args[1])
		if err != nil {
			return err
		}
		return withConsole(cmd, func(ctx context.Context, c *cats.Console) error {
			return c.SetAge(ctx, args[0], age)
		})
	},
}

var catsAddFeatureCmd = &cobra.Command{
	Use:   "add-feature NAME FEATURE",
	Short: "Add a feature to a cat",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withConsole(cmd, func(ctx context.Context, c *cats.Console) error {
			return c.AddFeature(ctx, args[0], args[1])
		})
	},
}

var catsDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Delete a cat by name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withConsole(cmd, func(ctx context.Context, c *cats.Console) error {
			return c.Delete(ctx, args[0])
		})
	},
}

var catsDeleteAllCmd = &cobra.Command{
	Use:   "delete-all",
	Short: "Delete every cat",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withConsole(cmd, func(ctx context.Context, c *cats.Console) error {
			return c.DeleteAll(ctx)
		})
	},
}

var catsDropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Drop the cats collection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withConsole(cmd, func(ctx context.Context, c *cats.Console) error {
			return c.Drop(ctx)
		})
	},
}

var catsDemoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the scripted walkthrough of every cats operation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withConsole(cmd, func(ctx context.Context, c *cats.Console) error {
			return c.Demo(ctx)
		})
	},
}

func init() {
	catsAddCmd.Flags().StringSliceVar(&catsFeatures, "feature", nil, "feature of the cat (repeatable)")

	catsCmd.AddCommand(
		catsAddCmd,
		catsListCmd,
		catsFindCmd,
		catsSetAgeCmd,
		catsAddFeatureCmd,
		catsDeleteCmd,
		catsDeleteAllCmd,
		catsDropCmd,
		catsDemoCmd,
	)
	rootCmd.AddCommand(catsCmd)
}

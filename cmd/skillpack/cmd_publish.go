package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"skillpack/pkg/registry"
)

// newPublishCmd creates the "skillpack publish" subcommand.
func newPublishCmd() *cobra.Command {
	var (
		version string
		share   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "publish <bundle>",
		Short: "Upload a built bundle to the object-store registry",
		Long: `Uploads a .skill file to an S3-compatible object store under the key
<name>/<version>/<name>.skill. Connection settings come from the
SKILLPACK_S3_* environment variables (a .env file is honored).

With --share, a presigned download URL valid for the given duration
is printed after the upload.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Missing .env is fine; the variables may come from the environment.
			_ = godotenv.Load()

			st, err := registry.NewMinIO(registry.ConfigFromEnv())
			if err != nil {
				return fmt.Errorf("publish: %w", err)
			}
			return runPublish(cmd.Context(), cmd.OutOrStdout(), st, args[0], version, share)
		},
	}

	cmd.Flags().StringVar(&version, "version", "", "published version (default: manifest version, then 0.0.0)")
	cmd.Flags().DurationVar(&share, "share", 0, "print a presigned GET URL valid for this duration")

	return cmd
}

// runPublish is the core logic for the publish command, separated for testability.
func runPublish(ctx context.Context, w io.Writer, st registry.Storage, path, version string, share time.Duration) error {
	pub, err := registry.Publish(ctx, st, path, version)
	if err != nil {
		return fmt.Errorf("publish: %w", err)
	}

	fmt.Fprintf(w, "Published %s %s (%d bytes)\n", pub.Skill, pub.Version, pub.Bytes)
	fmt.Fprintf(w, "  key:    %s\n", pub.Key)
	fmt.Fprintf(w, "  sha256: %s\n", pub.SHA256)

	if share > 0 {
		url, err := st.PresignGet(ctx, pub.Key, share)
		if err != nil {
			return fmt.Errorf("presign: %w", err)
		}
		fmt.Fprintf(w, "  share:  %s (expires in %s)\n", url, share)
	}
	return nil
}

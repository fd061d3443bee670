package main

import (
	"fmt"
	"time"

	"resume-ats/internal/pkg/jwt"

	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token SUBJECT",
	Short: "Mint an access token for the analysis history endpoints",
	Args:  cobra.ExactArgs(1),
	RunE:  runToken,
}

var tokenTTL time.Duration

func init() {
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "Token lifetime (defaults to JWT_ACCESS_EXPIRES_IN)")

	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.JWT.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is not set; history endpoints are open")
	}

	ttl := cfg.JWT.AccessExpiresIn
	if tokenTTL > 0 {
		ttl = tokenTTL
	}

	svc := jwt.NewHMACService(cfg.JWT.AccessSecret, ttl, cfg.App.AppName)
	tok, err := svc.GenerateAccessToken(args[0], []string{jwt.ScopeAnalysesRead})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), tok)
	return nil
}

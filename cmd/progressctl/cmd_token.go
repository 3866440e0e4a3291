package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	emodels "impulsa/internal/eligibility/models"
	"impulsa/internal/platform/config"
	"impulsa/internal/token"
	id "impulsa/pkg/domain"
	"impulsa/pkg/secrets"
)

// fixedStanding reports the same verdict for every user and target. Minted
// tokens only need a plausible payload for partner integration tests.
type fixedStanding struct {
	status     emodels.Status
	percentage float64
}

func (f fixedStanding) Evaluate(_ context.Context, userID id.UserID, targetID id.TargetID) (*emodels.Result, error) {
	return &emodels.Result{
		TargetID:   targetID,
		UserID:     userID,
		Status:     f.status,
		Percentage: f.percentage,
		Missing:    []emodels.MissingRequirement{},
	}, nil
}

func (f fixedStanding) GeneralStanding(ctx context.Context, userID id.UserID) (*emodels.Result, error) {
	return f.Evaluate(ctx, userID, "")
}

type mintOptions struct {
	userID     string
	targetID   string
	status     string
	percentage float64
	ttl        time.Duration
	signingKey string
	issuer     string
}

type mintOutput struct {
	Token     string            `json:"token"`
	TokenID   string            `json:"token_id"`
	UserID    string            `json:"user_id"`
	TargetID  string            `json:"target_id,omitempty"`
	Status    emodels.Status    `json:"status"`
	ExpiresAt time.Time         `json:"expires_at"`
	Usage     map[string]string `json:"usage"`
}

func newTokenCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Work with eligibility tokens",
	}

	mint := &mintOptions{}
	mintCmd := &cobra.Command{
		Use:   "mint",
		Short: "Sign an eligibility token with a chosen verdict",
		Long: "Sign an eligibility token without evaluating anyone. The key defaults to " +
			"ELIGIBILITY_SIGNING_KEY or the development key, so tokens minted here are " +
			"rejected by any deployment with a real key.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := runMint(cmd.Context(), mint)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if opts.json {
				return writeJSON(w, out)
			}
			fmt.Fprintln(w, out.Token)
			fmt.Fprintf(cmd.ErrOrStderr(), "jti %s, %s for %s, expires %s\n",
				out.TokenID, out.Status, out.UserID, out.ExpiresAt.Format(time.RFC3339))
			return nil
		},
	}

	cfg, err := config.FromEnv()
	if err != nil {
		cfg.Tokens = config.TokenConfig{Issuer: "impulsa", TTL: config.DefaultEligibilityTokenTTL}
	}
	mintCmd.Flags().StringVar(&mint.userID, "user-id", "", "participant id (uuid); random when empty")
	mintCmd.Flags().StringVar(&mint.targetID, "target", "", "target id; general standing when empty")
	mintCmd.Flags().StringVar(&mint.status, "status", string(emodels.StatusEligible), "eligible, partial or not_eligible")
	mintCmd.Flags().Float64Var(&mint.percentage, "percentage", 100, "completion percentage")
	mintCmd.Flags().DurationVar(&mint.ttl, "ttl", cfg.Tokens.TTL, "token lifetime, at most 15m")
	mintCmd.Flags().StringVar(&mint.signingKey, "key", cfg.Tokens.SigningKey, "HMAC signing key")
	mintCmd.Flags().StringVar(&mint.issuer, "issuer", cfg.Tokens.Issuer, "iss claim")

	keygenCmd := &cobra.Command{
		Use:   "keygen",
		Short: "Print a random key for ELIGIBILITY_SIGNING_KEY or ADMIN_API_TOKEN",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := secrets.Generate()
			if err != nil {
				return err
			}
			if opts.json {
				return writeJSON(cmd.OutOrStdout(), map[string]string{"key": key})
			}
			fmt.Fprintln(cmd.OutOrStdout(), key)
			return nil
		},
	}

	hashCmd := &cobra.Command{
		Use:   "hash-admin <token>",
		Short: "Print the bcrypt hash of an admin token",
		Long: "Print the bcrypt hash of an admin token. ADMIN_API_TOKEN accepts the hash " +
			"in place of the plaintext, so the deployment never stores the secret itself.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := secrets.Hash(args[0])
			if err != nil {
				return err
			}
			if opts.json {
				return writeJSON(cmd.OutOrStdout(), map[string]string{"hash": hash})
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}

	cmd.AddCommand(mintCmd, keygenCmd, hashCmd)
	return cmd
}

func runMint(ctx context.Context, opts *mintOptions) (*mintOutput, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	status := emodels.Status(opts.status)
	switch status {
	case emodels.StatusEligible, emodels.StatusPartial, emodels.StatusNotEligible:
	default:
		return nil, fmt.Errorf("invalid status %q", opts.status)
	}
	if opts.percentage < 0 || opts.percentage > 100 {
		return nil, fmt.Errorf("percentage %v outside [0, 100]", opts.percentage)
	}
	if opts.ttl <= 0 || opts.ttl > token.MaxTTL {
		return nil, fmt.Errorf("ttl must be in (0, %s]", token.MaxTTL)
	}
	if opts.signingKey == "" {
		return nil, fmt.Errorf("signing key is required")
	}

	userID := id.NewUserID()
	if opts.userID != "" {
		parsed, err := id.ParseUserID(opts.userID)
		if err != nil {
			return nil, err
		}
		userID = parsed
	}
	var targetID id.TargetID
	if opts.targetID != "" {
		parsed, err := id.ParseTargetID(opts.targetID)
		if err != nil {
			return nil, err
		}
		targetID = parsed
	}

	issuer := token.New(opts.signingKey,
		fixedStanding{status: status, percentage: opts.percentage},
		token.NewMemoryLedger(),
		token.WithTTL(opts.ttl),
		token.WithIssuerName(opts.issuer),
		token.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	issued, err := issuer.Issue(ctx, userID, targetID)
	if err != nil {
		return nil, err
	}
	return &mintOutput{
		Token:     issued.Token,
		TokenID:   issued.TokenID,
		UserID:    userID.String(),
		TargetID:  targetID.String(),
		Status:    status,
		ExpiresAt: issued.ExpiresAt,
		Usage: map[string]string{
			"verify": fmt.Sprintf(`curl -X POST localhost:8080/eligibility/tokens/verify -H 'X-User-ID: %s' -H 'Content-Type: application/json' -d '{"token":"%s"}'`,
				userID, issued.Token),
		},
	}, nil
}

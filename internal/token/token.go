package token

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	emodels "impulsa/internal/eligibility/models"
	"impulsa/internal/platform/tracer"
	"impulsa/internal/token/metrics"
	id "impulsa/pkg/domain"
	dErrors "impulsa/pkg/domain-errors"
	"impulsa/pkg/platform/sentinel"
	"impulsa/pkg/requestcontext"
)

const (
	DefaultTTL = 5 * time.Minute
	MaxTTL     = 15 * time.Minute
)

// Reason explains why a token failed verification.
type Reason string

const (
	ReasonMalformed        Reason = "malformed"
	ReasonInvalidSignature Reason = "invalid_signature"
	ReasonInvalidIssuer    Reason = "invalid_issuer"
	ReasonExpired          Reason = "expired"
	ReasonAlreadyUsed      Reason = "already_used"
	ReasonUnavailable      Reason = "ledger_unavailable"
)

// Claims is the signed payload. Target is empty for general standing.
type Claims struct {
	Target     id.TargetID    `json:"target,omitempty"`
	Status     emodels.Status `json:"status"`
	Percentage float64        `json:"percentage"`
	jwt.RegisteredClaims
}

// Evaluator computes the verdict embedded in a token.
type Evaluator interface {
	Evaluate(ctx context.Context, userID id.UserID, targetID id.TargetID) (*emodels.Result, error)
	GeneralStanding(ctx context.Context, userID id.UserID) (*emodels.Result, error)
}

// Ledger records consumed token ids.
// Error Contract:
// - MarkUsed returns sentinel.ErrAlreadyUsed when jti was consumed before
// - any other error means the ledger could not answer
type Ledger interface {
	MarkUsed(ctx context.Context, jti string, expiresAt time.Time) error
}

// Issued is a freshly signed token and the verdict it carries.
type Issued struct {
	Token     string
	TokenID   string
	ExpiresAt time.Time
	Result    *emodels.Result
}

// Verification is the outcome of Verify. Only Valid and Reason are set
// when the token is rejected.
type Verification struct {
	Valid      bool
	Reason     Reason
	UserID     id.UserID
	TargetID   id.TargetID
	Status     emodels.Status
	Percentage float64
	TokenID    string
	IssuedAt   time.Time
	ExpiresAt  time.Time
}

// Issuer signs short-lived, single-use eligibility tokens.
type Issuer struct {
	key       []byte
	issuer    string
	ttl       time.Duration
	evaluator Evaluator
	ledger    Ledger
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    tracer.Tracer
}

type Option func(*Issuer)

// WithTTL sets the token lifetime. Values outside (0, MaxTTL] are clamped.
func WithTTL(ttl time.Duration) Option {
	return func(i *Issuer) {
		switch {
		case ttl <= 0:
			i.ttl = DefaultTTL
		case ttl > MaxTTL:
			i.ttl = MaxTTL
		default:
			i.ttl = ttl
		}
	}
}

func WithIssuerName(name string) Option {
	return func(i *Issuer) { i.issuer = name }
}

func WithLogger(logger *slog.Logger) Option {
	return func(i *Issuer) { i.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(i *Issuer) { i.metrics = m }
}

func WithTracer(t tracer.Tracer) Option {
	return func(i *Issuer) { i.tracer = t }
}

func New(signingKey string, evaluator Evaluator, ledger Ledger, opts ...Option) *Issuer {
	if signingKey == "" {
		panic("token.New: signing key is required")
	}
	if evaluator == nil {
		panic("token.New: evaluator is required")
	}
	if ledger == nil {
		panic("token.New: ledger is required")
	}
	i := &Issuer{
		key:       []byte(signingKey),
		issuer:    "impulsa",
		ttl:       DefaultTTL,
		evaluator: evaluator,
		ledger:    ledger,
		logger:    slog.Default(),
		tracer:    tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Issue evaluates the user against targetID, or general standing when
// targetID is empty, and signs the verdict.
func (i *Issuer) Issue(ctx context.Context, userID id.UserID, targetID id.TargetID) (out *Issued, err error) {
	ctx, span := i.tracer.Start(ctx, tracer.SpanTokenIssue,
		tracer.String(tracer.AttrUserID, userID.String()),
		tracer.String(tracer.AttrTargetID, targetID.String()),
	)
	defer func() { span.End(err) }()

	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "user id is required")
	}
	var res *emodels.Result
	if targetID == "" {
		res, err = i.evaluator.GeneralStanding(ctx, userID)
	} else {
		res, err = i.evaluator.Evaluate(ctx, userID, targetID)
	}
	if err != nil {
		return nil, err
	}

	// Stamp in UTC at the claim precision so Issued.ExpiresAt matches what
	// Verify reads back from the token.
	now := requestcontext.Now(ctx).UTC().Truncate(jwt.TimePrecision)
	expiresAt := now.Add(i.ttl)
	jti := uuid.NewString()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Target:     targetID,
		Status:     res.Status,
		Percentage: res.Percentage,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    i.issuer,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}).SignedString(i.key)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign eligibility token")
	}

	if i.metrics != nil {
		i.metrics.IncIssued(string(res.Status))
	}
	i.logger.InfoContext(ctx, "eligibility token issued",
		"user_id", userID,
		"target_id", targetID,
		"status", res.Status,
		"jti", jti,
	)
	return &Issued{Token: signed, TokenID: jti, ExpiresAt: expiresAt, Result: res}, nil
}

// Verify checks signature, issuer and expiry, then consumes the token id.
// A rejected token is a result, not an error; anything the ledger cannot
// confirm is rejected.
func (i *Issuer) Verify(ctx context.Context, raw string) (*Verification, error) {
	ctx, span := i.tracer.Start(ctx, tracer.SpanTokenVerify)
	v := i.verify(ctx, raw)
	span.SetAttributes(tracer.Bool(tracer.AttrValid, v.Valid), tracer.String(tracer.AttrReason, string(v.Reason)))
	span.End(nil)

	if i.metrics != nil {
		if v.Valid {
			i.metrics.IncVerification("valid")
		} else {
			i.metrics.IncVerification(string(v.Reason))
		}
	}
	return v, nil
}

func (i *Issuer) verify(ctx context.Context, raw string) *Verification {
	now := requestcontext.Now(ctx)
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return i.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		return &Verification{Reason: reasonFor(err)}
	}
	userID, err := id.ParseUserID(claims.Subject)
	if err != nil || claims.ID == "" {
		return &Verification{Reason: ReasonMalformed}
	}

	expiresAt := claims.ExpiresAt.Time.UTC()
	if err := i.ledger.MarkUsed(ctx, claims.ID, expiresAt); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			i.logger.WarnContext(ctx, "eligibility token replayed",
				"user_id", userID,
				"jti", claims.ID,
			)
			return &Verification{Reason: ReasonAlreadyUsed}
		}
		i.logger.ErrorContext(ctx, "token ledger unavailable",
			"jti", claims.ID,
			"error", err,
		)
		return &Verification{Reason: ReasonUnavailable}
	}

	v := &Verification{
		Valid:      true,
		UserID:     userID,
		TargetID:   claims.Target,
		Status:     claims.Status,
		Percentage: claims.Percentage,
		TokenID:    claims.ID,
		ExpiresAt:  expiresAt,
	}
	if claims.IssuedAt != nil {
		v.IssuedAt = claims.IssuedAt.Time.UTC()
	}
	return v
}

func reasonFor(err error) Reason {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ReasonExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ReasonInvalidSignature
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return ReasonInvalidIssuer
	default:
		return ReasonMalformed
	}
}

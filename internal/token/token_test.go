package token

//go:generate mockgen -source=token.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	emodels "impulsa/internal/eligibility/models"
	"impulsa/internal/token/mocks"
	id "impulsa/pkg/domain"
	dErrors "impulsa/pkg/domain-errors"
	"impulsa/pkg/platform/sentinel"
	"impulsa/pkg/requestcontext"
	"impulsa/pkg/testutil"
)

const testKey = "test-signing-key"

type IssuerSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	evaluator *mocks.MockEvaluator
	issuer    *Issuer
	now       time.Time
	userID    id.UserID
}

func TestIssuerSuite(t *testing.T) {
	suite.Run(t, new(IssuerSuite))
}

func (s *IssuerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.evaluator = mocks.NewMockEvaluator(s.ctrl)
	s.now = time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	s.userID = id.NewUserID()
	s.issuer = s.newIssuer(NewMemoryLedger())
}

func (s *IssuerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *IssuerSuite) newIssuer(ledger Ledger, opts ...Option) *Issuer {
	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	return New(testKey, s.evaluator, ledger, opts...)
}

func (s *IssuerSuite) at(t time.Time) context.Context {
	return requestcontext.WithTime(context.Background(), t)
}

func (s *IssuerSuite) issueFor(targetID id.TargetID) *Issued {
	s.evaluator.EXPECT().Evaluate(gomock.Any(), s.userID, targetID).Return(&emodels.Result{
		TargetID: targetID, UserID: s.userID, Status: emodels.StatusPartial, Percentage: 62.5,
	}, nil)
	issued, err := s.issuer.Issue(s.at(s.now), s.userID, targetID)
	s.Require().NoError(err)
	return issued
}

func (s *IssuerSuite) TestIssueAndVerify() {
	issued := s.issueFor("feria-emprende")
	s.Equal(s.now.Add(DefaultTTL), issued.ExpiresAt)
	s.NotEmpty(issued.TokenID)

	v, err := s.issuer.Verify(s.at(s.now.Add(time.Minute)), issued.Token)
	s.Require().NoError(err)
	s.True(v.Valid)
	s.Equal(s.userID, v.UserID)
	s.Equal(id.TargetID("feria-emprende"), v.TargetID)
	s.Equal(emodels.StatusPartial, v.Status)
	s.Equal(62.5, v.Percentage)
	s.Equal(issued.TokenID, v.TokenID)
	s.Equal(s.now, v.IssuedAt)

	s.Run("second verification is a replay", func() {
		v, err := s.issuer.Verify(s.at(s.now.Add(2*time.Minute)), issued.Token)
		s.Require().NoError(err)
		s.False(v.Valid)
		s.Equal(ReasonAlreadyUsed, v.Reason)
	})
}

func (s *IssuerSuite) TestIssueGeneralStanding() {
	s.evaluator.EXPECT().GeneralStanding(gomock.Any(), s.userID).Return(&emodels.Result{
		UserID: s.userID, Status: emodels.StatusEligible, Percentage: 100,
	}, nil)

	issued, err := s.issuer.Issue(s.at(s.now), s.userID, "")
	s.Require().NoError(err)

	claims := &Claims{}
	_, _, err = jwt.NewParser().ParseUnverified(issued.Token, claims)
	s.Require().NoError(err)
	s.Empty(claims.Target)
	s.Equal(emodels.StatusEligible, claims.Status)
	s.Equal(s.userID.String(), claims.Subject)
	s.Equal("impulsa", claims.Issuer)
}

func (s *IssuerSuite) TestIssueErrors() {
	s.Run("nil user", func() {
		_, err := s.issuer.Issue(s.at(s.now), id.UserID{}, "feria")
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("evaluation error passes through", func() {
		s.evaluator.EXPECT().Evaluate(gomock.Any(), s.userID, id.TargetID("ghost")).
			Return(nil, dErrors.New(dErrors.CodeNotFound, "target not found"))
		_, err := s.issuer.Issue(s.at(s.now), s.userID, "ghost")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *IssuerSuite) TestTTLIsCapped() {
	s.issuer = s.newIssuer(NewMemoryLedger(), WithTTL(time.Hour))
	issued := s.issueFor("feria")
	s.Equal(s.now.Add(MaxTTL), issued.ExpiresAt)
}

func (s *IssuerSuite) TestVerifyRejections() {
	s.Run("expired", func() {
		issued := s.issueFor("feria")
		v, err := s.issuer.Verify(s.at(s.now.Add(DefaultTTL+time.Second)), issued.Token)
		s.Require().NoError(err)
		s.False(v.Valid)
		s.Equal(ReasonExpired, v.Reason)
	})

	s.Run("foreign key", func() {
		other := New("another-key", s.evaluator, NewMemoryLedger(), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
		s.evaluator.EXPECT().Evaluate(gomock.Any(), s.userID, id.TargetID("feria")).
			Return(&emodels.Result{Status: emodels.StatusEligible, Percentage: 100}, nil)
		issued, err := other.Issue(s.at(s.now), s.userID, "feria")
		s.Require().NoError(err)

		v, err := s.issuer.Verify(s.at(s.now), issued.Token)
		s.Require().NoError(err)
		s.Equal(ReasonInvalidSignature, v.Reason)
	})

	s.Run("foreign issuer", func() {
		other := s.newIssuer(NewMemoryLedger(), WithIssuerName("someone-else"))
		s.evaluator.EXPECT().Evaluate(gomock.Any(), s.userID, id.TargetID("feria")).
			Return(&emodels.Result{Status: emodels.StatusEligible, Percentage: 100}, nil)
		issued, err := other.Issue(s.at(s.now), s.userID, "feria")
		s.Require().NoError(err)

		v, err := s.issuer.Verify(s.at(s.now), issued.Token)
		s.Require().NoError(err)
		s.Equal(ReasonInvalidIssuer, v.Reason)
	})

	s.Run("unsigned token", func() {
		raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
			Status: emodels.StatusEligible,
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   s.userID.String(),
				Issuer:    "impulsa",
				ID:        "forged",
				ExpiresAt: jwt.NewNumericDate(s.now.Add(time.Minute)),
			},
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		s.Require().NoError(err)

		v, err := s.issuer.Verify(s.at(s.now), raw)
		s.Require().NoError(err)
		s.False(v.Valid)
	})

	s.Run("missing expiry", func() {
		raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: s.userID.String(), Issuer: "impulsa", ID: "no-exp"},
		}).SignedString([]byte(testKey))
		s.Require().NoError(err)

		v, err := s.issuer.Verify(s.at(s.now), raw)
		s.Require().NoError(err)
		s.False(v.Valid)
		s.Equal(ReasonMalformed, v.Reason)
	})

	s.Run("garbage", func() {
		v, err := s.issuer.Verify(s.at(s.now), "not.a.token")
		s.Require().NoError(err)
		s.Equal(ReasonMalformed, v.Reason)
	})
}

func (s *IssuerSuite) TestVerifyFailsClosedWhenLedgerIsDown() {
	ledger := mocks.NewMockLedger(s.ctrl)
	s.issuer = s.newIssuer(ledger)
	issued := s.issueFor("feria")

	ledger.EXPECT().MarkUsed(gomock.Any(), issued.TokenID, issued.ExpiresAt).
		Return(errors.Join(sentinel.ErrUnavailable, errors.New("connection refused")))

	v, err := s.issuer.Verify(s.at(s.now), issued.Token)
	s.Require().NoError(err)
	s.False(v.Valid)
	s.Equal(ReasonUnavailable, v.Reason)
}

func (s *IssuerSuite) TestTimesAreUTCAtClaimPrecision() {
	guayaquil := time.FixedZone("ECT", -5*60*60)
	local := s.now.In(guayaquil).Add(250 * time.Millisecond)

	ledger := mocks.NewMockLedger(s.ctrl)
	s.issuer = s.newIssuer(ledger)
	s.evaluator.EXPECT().Evaluate(gomock.Any(), s.userID, id.TargetID("feria")).Return(&emodels.Result{
		TargetID: "feria", UserID: s.userID, Status: emodels.StatusEligible, Percentage: 100,
	}, nil)
	issued, err := s.issuer.Issue(s.at(local), s.userID, "feria")
	s.Require().NoError(err)
	s.Equal(time.UTC, issued.ExpiresAt.Location())
	s.Equal(s.now.Add(DefaultTTL), issued.ExpiresAt)

	ledger.EXPECT().MarkUsed(gomock.Any(), issued.TokenID, issued.ExpiresAt).Return(nil)
	v, err := s.issuer.Verify(s.at(s.now), issued.Token)
	s.Require().NoError(err)
	s.Require().True(v.Valid)
	s.Equal(issued.ExpiresAt, v.ExpiresAt)
	s.Equal(time.UTC, v.ExpiresAt.Location())
	s.Equal(time.UTC, v.IssuedAt.Location())
	s.Equal(s.now, v.IssuedAt)
}

func (s *IssuerSuite) TestConcurrentVerificationConsumesOnce() {
	issued := s.issueFor("feria")
	ctx := s.at(s.now)

	result := testutil.RunConcurrent(20, func(int) error {
		v, err := s.issuer.Verify(ctx, issued.Token)
		if err != nil {
			return err
		}
		if !v.Valid {
			return sentinel.ErrConflict
		}
		return nil
	})
	s.Equal(int32(1), result.Successes)
	s.Equal(int32(19), result.Conflicts)
}

func TestMemoryLedgerForgetsExpiredIDs(t *testing.T) {
	ledger := NewMemoryLedger()
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)

	if err := ledger.MarkUsed(ctx, "a", now.Add(time.Minute)); err != nil {
		t.Fatalf("first mark: %v", err)
	}
	if err := ledger.MarkUsed(ctx, "a", now.Add(time.Minute)); !errors.Is(err, sentinel.ErrAlreadyUsed) {
		t.Fatalf("expected already used, got %v", err)
	}

	later := requestcontext.WithTime(context.Background(), now.Add(2*time.Minute))
	if err := ledger.MarkUsed(later, "b", now.Add(3*time.Minute)); err != nil {
		t.Fatalf("mark b: %v", err)
	}
	if len(ledger.used) != 1 {
		t.Fatalf("expected expired id to be pruned, have %d entries", len(ledger.used))
	}
}

func TestMemoryLedgerEvictsOnlyExpired(t *testing.T) {
	ledger := NewMemoryLedger()
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) context.Context {
		return requestcontext.WithTime(context.Background(), now.Add(d))
	}

	for jti, ttl := range map[string]time.Duration{"a": time.Minute, "b": 5 * time.Minute, "c": 10 * time.Minute} {
		if err := ledger.MarkUsed(at(0), jti, now.Add(ttl)); err != nil {
			t.Fatalf("mark %s: %v", jti, err)
		}
	}

	if err := ledger.MarkUsed(at(6*time.Minute), "d", now.Add(20*time.Minute)); err != nil {
		t.Fatalf("mark d: %v", err)
	}
	if len(ledger.used) != 2 || ledger.expiry.Len() != 2 {
		t.Fatalf("expected only a and b evicted, have %d ids and %d queued", len(ledger.used), ledger.expiry.Len())
	}
	if err := ledger.MarkUsed(at(6*time.Minute), "c", now.Add(10*time.Minute)); !errors.Is(err, sentinel.ErrAlreadyUsed) {
		t.Fatalf("expected c still used, got %v", err)
	}

	t.Run("an expired id can be marked again", func(t *testing.T) {
		if err := ledger.MarkUsed(at(11*time.Minute), "c", now.Add(30*time.Minute)); err != nil {
			t.Fatalf("re-mark c: %v", err)
		}
		if err := ledger.MarkUsed(at(12*time.Minute), "c", now.Add(30*time.Minute)); !errors.Is(err, sentinel.ErrAlreadyUsed) {
			t.Fatalf("expected c used again, got %v", err)
		}
	})
}

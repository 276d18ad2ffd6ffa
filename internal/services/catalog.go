package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/nimeshabuddhika/mock-error-api/internal/views"
	"github.com/nimeshabuddhika/mock-error-api/pkg"
	"go.uber.org/zap"
)

// Operation names accepted by the catalog. The set is fixed at startup and
// every name maps to exactly one outcome kind.
const (
	OpNotFound           = "notFound"
	OpAuthenticationFail = "authenticationFail"
	OpGivenCode          = "givenCode"
	OpRequestTimeout     = "requestTimeout"
	OpNetworkError       = "networkError"
	OpOther              = "other"
	OpAntiPattern        = "antiPattern"
	OpGqlError           = "gqlError"
	OpNonGqlError        = "nonGqlError"
)

// OutcomeKind tags the shape of a simulated result.
type OutcomeKind string

const (
	KindConformantError    OutcomeKind = "conformant_error"
	KindNonConformantError OutcomeKind = "non_conformant_error"
	KindMalformedSuccess   OutcomeKind = "malformed_success"
	KindDelayedFailure     OutcomeKind = "delayed_failure"
)

// ArgKind names the single argument an operation reads, if any.
type ArgKind string

const (
	ArgNone  ArgKind = "" // zero value: most operations take no argument
	ArgCode  ArgKind = "code"
	ArgDelay ArgKind = "delay"
)

// Outcome is the materialized result of resolving one operation. Failures set
// Err: a pkg.AppError for conformant errors, a bare error for non-conformant
// ones. Malformed successes set Payload instead. Thrown outcomes are delivered
// by panicking in the handler rather than by writing a response directly, so
// they travel the same path as a fault escaping a real handler.
type Outcome struct {
	Kind    OutcomeKind
	Thrown  bool
	Err     error
	Payload map[string]interface{}
}

// operationSpec is one registry entry: the definition-time mapping from an
// operation to its outcome kind plus the data needed to materialize it.
type operationSpec struct {
	Arg        ArgKind
	Kind       OutcomeKind
	Thrown     bool
	Code       pkg.ErrorCode // conformant error code; post-delay code for delayed failures
	Message    string
	EchoStatus bool   // transport status is taken from the code argument
	Fault      string // non-conformant fault text
	Payload    map[string]interface{}
}

// Catalog deterministically resolves a named operation to its simulated
// outcome. Resolutions are pure and stateless; calling the same operation with
// the same arguments always yields the same outcome.
type Catalog interface {
	Resolve(ctx context.Context, traceID string, req views.SimulateRequest) (Outcome, error)
	Operations() []string
}

type CatalogImpl struct {
	logger     *zap.Logger
	operations map[string]operationSpec
}

// NewCatalog builds the immutable operation registry and returns the catalog.
// The registry is never mutated after construction.
func NewCatalog(logger *zap.Logger) Catalog {
	c := &CatalogImpl{
		logger:     logger,
		operations: newOperations(),
	}
	logger.Info("simulation catalog initialized",
		zap.Int("operations", len(c.operations)),
		zap.Strings("names", c.Operations()),
	)
	return c
}

// newOperations declares the full operation set. Adding a new simulated
// failure is a data addition here, not a new code path.
func newOperations() map[string]operationSpec {
	// The declared anti-pattern shape promises a list of ints in "errors";
	// flattened into the response data, the nil slice serializes as null.
	antiPattern := views.AntiPatternPayload{
		Body: views.AntiPatternBody{Value: "", Code: http.StatusNotFound},
	}

	return map[string]operationSpec{
		OpNotFound: {
			Kind:    KindConformantError,
			Code:    pkg.ErrNotFoundCode,
			Message: "requested resource does not exist",
		},
		OpAuthenticationFail: {
			Kind:    KindConformantError,
			Code:    pkg.ErrForbiddenCode,
			Message: "authentication failed",
		},
		OpGivenCode: {
			Arg:        ArgCode,
			Kind:       KindConformantError,
			Code:       pkg.ErrBadRequestCode,
			EchoStatus: true,
			Message:    "request rejected",
		},
		OpRequestTimeout: {
			Arg:     ArgDelay,
			Kind:    KindDelayedFailure,
			Code:    pkg.ErrInternalCode,
			Message: "request timed out",
		},
		OpNetworkError: {
			Kind:    KindConformantError,
			Code:    pkg.ErrNetworkCode,
			Message: "network failure",
		},
		OpOther: {
			Kind:   KindNonConformantError,
			Thrown: true,
			Fault:  "unexpected fault in upstream service",
		},
		OpAntiPattern: {
			Kind: KindMalformedSuccess,
			Payload: map[string]interface{}{
				"errors": antiPattern.Errors,
				"body":   antiPattern.Body,
			},
		},
		OpGqlError: {
			Kind:    KindConformantError,
			Thrown:  true,
			Code:    pkg.ErrGqlCode,
			Message: "custom error",
		},
		OpNonGqlError: {
			Kind:   KindNonConformantError,
			Thrown: true,
			Fault:  "something went wrong",
		},
	}
}

// Resolve maps the request to its outcome. The only error it returns is the
// context's own, when a delayed failure is abandoned before the delay elapses;
// argument problems come back as BAD_USER_INPUT outcomes, not errors.
func (s *CatalogImpl) Resolve(ctx context.Context, traceID string, req views.SimulateRequest) (Outcome, error) {
	spec, ok := s.operations[req.Operation]
	if !ok {
		s.logger.Warn("unknown operation",
			zap.String(pkg.TraceId, traceID),
			zap.String("operation", req.Operation),
		)
		return conformant(pkg.ErrBadUserInputCode, fmt.Sprintf("unknown operation %q", req.Operation), false), nil
	}

	// Required-argument check. Absent and zero both fail it: the original
	// contract treats 0 as "not provided".
	switch spec.Arg {
	case ArgCode:
		if req.Code == nil || *req.Code == 0 {
			return conformant(pkg.ErrBadUserInputCode, "code is required", false), nil
		}
	case ArgDelay:
		if req.Time == nil || *req.Time == 0 {
			return conformant(pkg.ErrBadUserInputCode, "time is required", false), nil
		}
	}

	s.logger.Info("resolving operation",
		zap.String(pkg.TraceId, traceID),
		zap.String("operation", req.Operation),
		zap.String("kind", string(spec.Kind)),
	)

	switch spec.Kind {
	case KindNonConformantError:
		return Outcome{Kind: KindNonConformantError, Thrown: spec.Thrown, Err: errors.New(spec.Fault)}, nil

	case KindMalformedSuccess:
		return Outcome{Kind: KindMalformedSuccess, Payload: spec.Payload}, nil

	case KindDelayedFailure:
		delay := time.Duration(*req.Time) * time.Millisecond
		// Suspend only this request; concurrent requests keep their own pace.
		select {
		case <-ctx.Done():
			// Abandoned mid-wait: no outcome is produced.
			return Outcome{}, ctx.Err()
		case <-time.After(delay):
		}
		return conformant(spec.Code, fmt.Sprintf("%s after %dms", spec.Message, *req.Time), spec.Thrown), nil

	default: // KindConformantError
		code := spec.Code
		msg := spec.Message
		if spec.EchoStatus {
			code = code.WithStatus(*req.Code)
			msg = fmt.Sprintf("%s with status %d", spec.Message, *req.Code)
		}
		return conformant(code, msg, spec.Thrown), nil
	}
}

// Operations lists the declared operation names, sorted for stable output.
func (s *CatalogImpl) Operations() []string {
	names := make([]string, 0, len(s.operations))
	for name := range s.operations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func conformant(code pkg.ErrorCode, msg string, thrown bool) Outcome {
	return Outcome{Kind: KindConformantError, Thrown: thrown, Err: pkg.NewAppError(code, msg, nil)}
}

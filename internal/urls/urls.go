package urls

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dvcrn/mpesa-go/internal/operation"
)

// Environment selects the Daraja deployment
type Environment string

const (
	Sandbox    Environment = "sandbox"
	Production Environment = "production"

	// DefaultVersion is used when no API version is configured
	DefaultVersion = "v1"

	SandboxBaseURL    = "https://sandbox.safaricom.co.ke"
	ProductionBaseURL = "https://api.safaricom.co.ke"

	tokenPath = "/oauth/v1/generate"
)

var (
	ErrUnknownEnvironment = errors.New("unknown environment")
	ErrUnknownOperation   = errors.New("unknown operation")
)

// paths are formatted with the API version
var paths = map[operation.Kind]string{
	operation.B2BPayment:        "/mpesa/b2b/%s/paymentrequest",
	operation.B2CPayment:        "/mpesa/b2c/%s/paymentrequest",
	operation.C2BRegisterURL:    "/mpesa/c2b/%s/registerurl",
	operation.C2BSimulate:       "/mpesa/c2b/%s/simulate",
	operation.TransactionStatus: "/mpesa/transactionstatus/%s/query",
	operation.AccountBalance:    "/mpesa/accountbalance/%s/query",
	operation.Reversal:          "/mpesa/reversal/%s/request",
	operation.STKPushQuery:      "/mpesa/stkpushquery/%s/query",
	operation.STKPushPayment:    "/mpesa/stkpush/%s/processrequest",
}

// Resolver maps operations to absolute endpoint URLs for one environment
type Resolver struct {
	env     Environment
	baseURL string
	version string
}

// New creates a resolver for the given environment and API version
func New(env Environment, version string) (*Resolver, error) {
	var base string
	switch env {
	case Sandbox:
		base = SandboxBaseURL
	case Production:
		base = ProductionBaseURL
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEnvironment, env)
	}
	if version == "" {
		version = DefaultVersion
	}
	return &Resolver{env: env, baseURL: base, version: version}, nil
}

// WithBaseURL returns a copy of the resolver pointing at a different host,
// e.g. an httptest server.
func (r *Resolver) WithBaseURL(baseURL string) *Resolver {
	cp := *r
	cp.baseURL = strings.TrimRight(baseURL, "/")
	return &cp
}

func (r *Resolver) Environment() Environment {
	return r.env
}

// URL returns the endpoint for an operation
func (r *Resolver) URL(kind operation.Kind) (string, error) {
	p, ok := paths[kind]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownOperation, kind)
	}
	return r.baseURL + fmt.Sprintf(p, r.version), nil
}

// TokenURL returns the OAuth generate endpoint without query parameters.
// The token endpoint is not versioned by the configured API version.
func (r *Resolver) TokenURL() string {
	return r.baseURL + tokenPath
}

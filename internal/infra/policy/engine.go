package policy

import (
	"context"
	"encoding/json"
	"errors"
	"sort"

	"github.com/open-policy-agent/opa/rego"

	"github.com/Ramcharan1706/BlockEstate/internal/domain"
)

const defaultQuery = "data.blockestate.policy.result"

// Engine evaluates mint eligibility for one document against a Rego
// bundle. The bundle decides `data.blockestate.policy.result` as
// {allow: bool, deny: [{code, message}]}.
type Engine struct {
	query      rego.PreparedEvalQuery
	bundleID   string
	bundleHash string
}

func NewEngineFromBundlePath(ctx context.Context, bundlePath, bundleID string) (*Engine, error) {
	bundleHash, err := computeBundleHash(bundlePath)
	if err != nil {
		return nil, err
	}
	r := rego.New(
		rego.Query(defaultQuery),
		rego.StrictBuiltinErrors(true),
		rego.Load([]string{bundlePath}, nil),
	)
	prepared, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, err
	}
	return &Engine{
		query:      prepared,
		bundleID:   bundleID,
		bundleHash: bundleHash,
	}, nil
}

func (e *Engine) BundleHash() string {
	return e.bundleHash
}

func (e *Engine) Evaluate(ctx context.Context, input domain.PolicyInput) (domain.PolicyEvaluation, error) {
	if e == nil {
		return domain.PolicyEvaluation{}, errors.New("policy engine is nil")
	}
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return domain.PolicyEvaluation{}, err
	}
	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return domain.PolicyEvaluation{}, errors.New("empty policy result")
	}
	result, err := decodeResult(results[0].Expressions[0].Value)
	if err != nil {
		return domain.PolicyEvaluation{}, err
	}
	sort.Slice(result.Deny, func(i, j int) bool {
		if result.Deny[i].Code == result.Deny[j].Code {
			return result.Deny[i].Message < result.Deny[j].Message
		}
		return result.Deny[i].Code < result.Deny[j].Code
	})
	return domain.PolicyEvaluation{
		BundleID:   e.bundleID,
		BundleHash: e.bundleHash,
		Result:     result,
	}, nil
}

func decodeResult(value any) (domain.PolicyResult, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return domain.PolicyResult{}, err
	}
	var result domain.PolicyResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return domain.PolicyResult{}, err
	}
	return result, nil
}

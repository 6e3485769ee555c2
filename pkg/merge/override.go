package merge

import (
	"github.com/cockroachdb/errors"

	log "github.com/geekcafe/cdk-factory-sub001/pkg/logger"
	"github.com/geekcafe/cdk-factory-sub001/pkg/schema"
)

// EffectiveStackConfig produces one effective config block for a stack
// targeted at the given (account, environment) pair.
//
// Override nesting is bounded to exactly two levels: the account-level
// override applies first, then the matching environment-level override can
// refine it further. No matching override is the default no-op path.
func EffectiveStackConfig(stack *schema.Stack, account, environment string) (map[string]any, error) {
	inputs := []map[string]any{stack.Config}

	accountOverride := findAccountOverride(stack, account)
	if accountOverride != nil {
		if accountOverride.Config != nil {
			inputs = append(inputs, accountOverride.Config)
		}
		if envOverride := findEnvironmentOverride(accountOverride, environment); envOverride != nil {
			inputs = append(inputs, envOverride.Config)
		}
	}

	if len(inputs) == 1 {
		log.Debug("no account/environment override matched", "stack", stack.Name,
			"account", account, "environment", environment)
	}

	result, err := Merge(inputs)
	if err != nil {
		return nil, errors.Wrapf(err, "stack %s", stack.Name)
	}
	return result, nil
}

func findAccountOverride(stack *schema.Stack, account string) *schema.AccountOverride {
	for i := range stack.Accounts {
		if stack.Accounts[i].Account == account {
			return &stack.Accounts[i]
		}
	}
	return nil
}

func findEnvironmentOverride(override *schema.AccountOverride, environment string) *schema.EnvironmentOverride {
	for i := range override.Environments {
		if override.Environments[i].Environment == environment {
			return &override.Environments[i]
		}
	}
	return nil
}

package extraction

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/jonathan/resume-parser/internal/llm"
	"github.com/jonathan/resume-parser/internal/prompts"
)

// Strategy identifiers accepted in a ChainConfig.
const (
	StrategyNER      = "ner"
	StrategyRules    = "rules"
	StrategyLLM      = "llm"
	StrategyRegex    = "regex"
	StrategyKeywords = "keywords"
)

// DefaultModelTimeout bounds each call of a model-based strategy.
const DefaultModelTimeout = 30 * time.Second

// ChainConfig lists strategy identifiers per field, in resolution order.
type ChainConfig struct {
	Name   []string `json:"name"`
	Email  []string `json:"email"`
	Skills []string `json:"skills"`
}

// DefaultChainConfig tries inference before heuristics for every field that has both.
func DefaultChainConfig() ChainConfig {
	return ChainConfig{
		Name:   []string{StrategyNER, StrategyRules},
		Email:  []string{StrategyRegex},
		Skills: []string{StrategyLLM, StrategyKeywords},
	}
}

// Without returns a copy with id removed from every field.
func (c ChainConfig) Without(id string) ChainConfig {
	drop := func(ids []string) []string {
		return slices.DeleteFunc(slices.Clone(ids), func(s string) bool { return s == id })
	}
	return ChainConfig{Name: drop(c.Name), Email: drop(c.Email), Skills: drop(c.Skills)}
}

// Capabilities are the external collaborators available at startup.
// A nil capability omits the strategies that depend on it.
type Capabilities struct {
	LLM           llm.Client
	Entities      EntityRecognizer
	SkillKeywords []string
	ModelTimeout  time.Duration
}

// BuildCoordinator resolves cfg into chains for name, email and skills, in that
// order. Strategies whose capability is missing are dropped once here, with a log
// line, rather than failing on every document.
func BuildCoordinator(cfg ChainConfig, caps Capabilities, logger *slog.Logger) (*Coordinator, error) {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := caps.ModelTimeout
	if timeout == 0 {
		timeout = DefaultModelTimeout
	}
	if caps.LLM != nil && (slices.Contains(cfg.Name, StrategyLLM) || slices.Contains(cfg.Skills, StrategyLLM)) {
		if err := prompts.Require(prompts.ExtractionFile, prompts.KeyName, prompts.KeySkills); err != nil {
			return nil, err
		}
	}

	var nameStrategies []Strategy[string]
	for _, id := range cfg.Name {
		switch id {
		case StrategyRules:
			nameStrategies = append(nameStrategies, NewRuleBasedName())
		case StrategyNER:
			if caps.Entities == nil {
				logOmitted(logger, FieldName, id, "no entity recognizer")
				continue
			}
			nameStrategies = append(nameStrategies, WithTimeout[string](NewNERName(caps.Entities), timeout))
		case StrategyLLM:
			if caps.LLM == nil {
				logOmitted(logger, FieldName, id, "no language model configured")
				continue
			}
			nameStrategies = append(nameStrategies, WithTimeout[string](NewLLMName(caps.LLM, logger), timeout))
		default:
			return nil, unknownStrategy(FieldName, id)
		}
	}

	var emailStrategies []Strategy[string]
	for _, id := range cfg.Email {
		switch id {
		case StrategyRegex:
			emailStrategies = append(emailStrategies, NewRegexEmail())
		default:
			return nil, unknownStrategy(FieldEmail, id)
		}
	}

	var skillStrategies []Strategy[[]string]
	for _, id := range cfg.Skills {
		switch id {
		case StrategyKeywords:
			skillStrategies = append(skillStrategies, NewKeywordSkills(caps.SkillKeywords))
		case StrategyLLM:
			if caps.LLM == nil {
				logOmitted(logger, FieldSkills, id, "no language model configured")
				continue
			}
			skillStrategies = append(skillStrategies, WithTimeout[[]string](NewLLMSkills(caps.LLM, logger), timeout))
		default:
			return nil, unknownStrategy(FieldSkills, id)
		}
	}

	return NewCoordinator(logger,
		NameChain(logger, nameStrategies...),
		EmailChain(logger, emailStrategies...),
		SkillsChain(logger, skillStrategies...),
	)
}

func logOmitted(logger *slog.Logger, field Field, id, reason string) {
	logger.Info("chain.strategy.omitted", "field", string(field), "strategy", id, "reason", reason)
}

func unknownStrategy(field Field, id string) error {
	return fmt.Errorf("unknown %s strategy %q", field, id)
}

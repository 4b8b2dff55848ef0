package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// EngineConfig holds the engine's runtime configuration. Every field has a
// documented default per spec so a zero-value Load() produces a usable
// engine; individual fields can be overridden via environment variables.
//
// Env vars:
//
//	ENGINE_K_PRIMARY (default 2)
//	ENGINE_K_SECONDARY (default 2)
//	ENGINE_K_FALLBACK (default 2)
//	ENGINE_WEIGHT_REGION (default 0.5)
//	ENGINE_WEIGHT_INDUSTRY (default 0.3)
//	ENGINE_WEIGHT_RELIABILITY (default 0.2)
//	ENGINE_MIN_SELECTION_SCORE (default 0.15)
//	ENGINE_MIN_RESULTS_FOR_SUCCESS (default 0, meaning min(10, results_wanted/2))
//	ENGINE_TOKEN_WAIT_BUDGET_RATIO (default 0.5)
//	ENGINE_CIRCUIT_BREAKER_COOL_DOWN_MS (default 30000)
//	ENGINE_FAILURE_THRESHOLD (default 3)
//	ENGINE_RETRY_MAX_ATTEMPTS (default 3)
//	ENGINE_RETRY_BASE_BACKOFF_MS (default 1000)
//	ENGINE_DEDUP_POLICY (default id_and_fingerprint)
//	ENGINE_RUN_DEADLINE_SECONDS (default 120)
//	ENGINE_MAX_CONCURRENT_AGENTS (default 4)
//	ENGINE_DEFAULT_RATE_LIMIT_RPM (default 30)
//	ENGINE_DEFAULT_RATE_LIMIT_BURST (default 5)
//
// Logging config is handled in internal/logging.
type DedupPolicy string

const (
	DedupStrictIDOnly      DedupPolicy = "strict_id_only"
	DedupIDAndFingerprint  DedupPolicy = "id_and_fingerprint"
)

type EngineConfig struct {
	KPrimary   int
	KSecondary int
	KFallback  int

	WeightRegion      float64
	WeightIndustry    float64
	WeightReliability float64

	MinSelectionScore     float64
	MinResultsForSuccess  int // 0 means "derive from results_wanted at run time"
	TokenWaitBudgetRatio  float64

	CircuitBreakerCoolDown time.Duration
	FailureThreshold       int

	RetryMaxAttempts  int
	RetryBaseBackoff  time.Duration

	DedupPolicy DedupPolicy

	RunDeadline         time.Duration
	MaxConcurrentAgents int

	DefaultRateLimitRPM   int
	DefaultRateLimitBurst int
}

// Load builds an EngineConfig from environment variables, falling back to
// spec-mandated defaults for anything unset.
func Load() *EngineConfig {
	return &EngineConfig{
		KPrimary:   getInt("ENGINE_K_PRIMARY", 2),
		KSecondary: getInt("ENGINE_K_SECONDARY", 2),
		KFallback:  getInt("ENGINE_K_FALLBACK", 2),

		WeightRegion:      getFloat("ENGINE_WEIGHT_REGION", 0.5),
		WeightIndustry:    getFloat("ENGINE_WEIGHT_INDUSTRY", 0.3),
		WeightReliability: getFloat("ENGINE_WEIGHT_RELIABILITY", 0.2),

		MinSelectionScore:    getFloat("ENGINE_MIN_SELECTION_SCORE", 0.15),
		MinResultsForSuccess: getInt("ENGINE_MIN_RESULTS_FOR_SUCCESS", 0),
		TokenWaitBudgetRatio: getFloat("ENGINE_TOKEN_WAIT_BUDGET_RATIO", 0.5),

		CircuitBreakerCoolDown: time.Duration(getInt("ENGINE_CIRCUIT_BREAKER_COOL_DOWN_MS", 30000)) * time.Millisecond,
		FailureThreshold:       getInt("ENGINE_FAILURE_THRESHOLD", 3),

		RetryMaxAttempts: getInt("ENGINE_RETRY_MAX_ATTEMPTS", 3),
		RetryBaseBackoff: time.Duration(getInt("ENGINE_RETRY_BASE_BACKOFF_MS", 1000)) * time.Millisecond,

		DedupPolicy: DedupPolicy(getString("ENGINE_DEDUP_POLICY", string(DedupIDAndFingerprint))),

		RunDeadline:         time.Duration(getInt("ENGINE_RUN_DEADLINE_SECONDS", 120)) * time.Second,
		MaxConcurrentAgents: getInt("ENGINE_MAX_CONCURRENT_AGENTS", 4),

		DefaultRateLimitRPM:   getInt("ENGINE_DEFAULT_RATE_LIMIT_RPM", 30),
		DefaultRateLimitBurst: getInt("ENGINE_DEFAULT_RATE_LIMIT_BURST", 5),
	}
}

// Validate checks internal consistency of the configuration, per spec.md §6.
func (c *EngineConfig) Validate() error {
	if c.KPrimary < 0 || c.KSecondary < 0 || c.KFallback < 0 {
		return fmt.Errorf("K_primary/K_secondary/K_fallback must be >= 0")
	}
	sum := c.WeightRegion + c.WeightIndustry + c.WeightReliability
	if sum < 0.999 || sum > 1.001 {
		return fmt.Errorf("composite_score_weights must sum to 1.0, got %.4f", sum)
	}
	if c.MinSelectionScore < 0 || c.MinSelectionScore > 1 {
		return fmt.Errorf("min_selection_score must be in [0,1], got %.4f", c.MinSelectionScore)
	}
	if c.TokenWaitBudgetRatio <= 0 || c.TokenWaitBudgetRatio > 1 {
		return fmt.Errorf("token_wait_budget_ratio must be in (0,1], got %.4f", c.TokenWaitBudgetRatio)
	}
	if c.CircuitBreakerCoolDown <= 0 {
		return fmt.Errorf("circuit_breaker_cool_down must be > 0")
	}
	if c.FailureThreshold <= 0 {
		return fmt.Errorf("failure_threshold must be > 0")
	}
	if c.RetryMaxAttempts <= 0 {
		return fmt.Errorf("retry_max_attempts must be > 0")
	}
	if c.RetryBaseBackoff <= 0 {
		return fmt.Errorf("retry_base_backoff must be > 0")
	}
	switch c.DedupPolicy {
	case DedupStrictIDOnly, DedupIDAndFingerprint:
		// ok
	default:
		return fmt.Errorf("dedup_policy must be one of strict_id_only,id_and_fingerprint; got %q", c.DedupPolicy)
	}
	if c.RunDeadline <= 0 {
		return fmt.Errorf("run_deadline must be > 0")
	}
	if c.MaxConcurrentAgents <= 0 {
		return fmt.Errorf("max_concurrent_agents must be > 0")
	}
	if c.DefaultRateLimitRPM <= 0 || c.DefaultRateLimitBurst <= 0 {
		return fmt.Errorf("default rate limit rpm/burst must be > 0")
	}
	return nil
}

// MinResultsFor derives min_results_for_success for a given results_wanted,
// per spec.md §4.5 step 7, unless an explicit override was configured.
func (c *EngineConfig) MinResultsFor(resultsWanted int) int {
	if c.MinResultsForSuccess > 0 {
		return c.MinResultsForSuccess
	}
	half := resultsWanted / 2
	if half < 10 {
		return half
	}
	return 10
}

func getString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return def
}

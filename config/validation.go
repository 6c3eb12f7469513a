package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation error [%s]: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	if len(errs) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("found %d configuration error(s):\n", len(errs)))
	for i, err := range errs {
		b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Message))
	}
	return b.String()
}

// Validate validates the complete configuration
func (c *Config) Validate() error {
	var errs ValidationErrors

	errs = append(errs, c.validateProject()...)
	errs = append(errs, c.validateSearch()...)
	errs = append(errs, c.validateSession()...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (c *Config) validateProject() ValidationErrors {
	var errs ValidationErrors

	if c.Project.ID == "" {
		errs = append(errs, ValidationError{
			Field:   "project.id",
			Message: "project id is required (set project.id or GOOGLE_CLOUD_PROJECT)",
		})
	}

	return errs
}

func (c *Config) validateSearch() ValidationErrors {
	var errs ValidationErrors

	if c.Search.PageSize < 0 {
		errs = append(errs, ValidationError{
			Field:   "search.page_size",
			Message: fmt.Sprintf("page size must not be negative, got %d", c.Search.PageSize),
		})
	}

	if v := strings.ToUpper(c.Search.QueryExpansion); v != "" && v != "AUTO" && v != "DISABLED" {
		errs = append(errs, ValidationError{
			Field:   "search.query_expansion",
			Message: fmt.Sprintf("query expansion must be AUTO or DISABLED, got %q", c.Search.QueryExpansion),
		})
	}

	if v := strings.ToUpper(c.Search.SpellCorrection); v != "" && v != "AUTO" && v != "DISABLED" {
		errs = append(errs, ValidationError{
			Field:   "search.spell_correction",
			Message: fmt.Sprintf("spell correction must be AUTO or DISABLED, got %q", c.Search.SpellCorrection),
		})
	}

	return errs
}

func (c *Config) validateSession() ValidationErrors {
	var errs ValidationErrors

	switch c.Session.Store {
	case "", "memory":
	case "redis":
		if c.Session.Redis.Addr == "" {
			errs = append(errs, ValidationError{
				Field:   "session.redis.addr",
				Message: "redis session store requires session.redis.addr",
			})
		}
	default:
		errs = append(errs, ValidationError{
			Field:   "session.store",
			Message: fmt.Sprintf("session store must be memory or redis, got %q", c.Session.Store),
		})
	}

	return errs
}

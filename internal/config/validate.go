package config

import (
	"fmt"
	"net/url"
	"time"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Scheduler.CatchUpLimit < 1 {
		return fmt.Errorf("scheduler.catch_up_limit must be >= 1 (got %d)", c.Scheduler.CatchUpLimit)
	}

	if c.Push.GatewayURL != "" {
		u, err := url.Parse(c.Push.GatewayURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("push.gateway_url is not a valid URL: %q", c.Push.GatewayURL)
		}
	}
	if c.Push.Timeout <= 0 {
		return fmt.Errorf("push.timeout must be > 0 (got %v)", c.Push.Timeout)
	}

	if c.Notifications.TaxYear != 0 && c.Notifications.TaxYear < 2000 {
		return fmt.Errorf("notifications.tax_year out of range (got %d)", c.Notifications.TaxYear)
	}

	return nil
}

// ReportingTaxYear resolves the tax year the daily checks report on.
// A configured year wins; otherwise the previous calendar year of now.
func (c *Config) ReportingTaxYear(now time.Time) int {
	if c.Notifications.TaxYear != 0 {
		return c.Notifications.TaxYear
	}
	return now.Year() - 1
}

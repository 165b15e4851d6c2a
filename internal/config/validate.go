package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable. Grid bounds are checked
// structurally here; the grid package re-validates with its task ceiling
// before enumeration.
func (c *Config) Validate() error {
	if err := c.validateGrid(); err != nil {
		return err
	}
	if err := c.validateRequest(); err != nil {
		return err
	}
	if err := c.validateAcquire(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateGrid() error {
	if c.Grid.DLat <= 0 {
		return errors.New("grid.dlat must be positive")
	}
	if c.Grid.DLon <= 0 {
		return errors.New("grid.dlon must be positive")
	}
	if c.Grid.LatMin > c.Grid.LatMax {
		return errors.New("grid.lat_min must not exceed grid.lat_max")
	}
	if c.Grid.LonMin > c.Grid.LonMax {
		return errors.New("grid.lon_min must not exceed grid.lon_max")
	}
	if c.Grid.LatMin < -90 || c.Grid.LatMax > 90 {
		return errors.New("grid latitude bounds must lie within [-90, 90]")
	}
	if c.Grid.LonMin < -180 || c.Grid.LonMax > 180 {
		return errors.New("grid longitude bounds must lie within [-180, 180]")
	}
	if len(c.Grid.Years) == 0 {
		return errors.New("grid.years must list at least one year")
	}
	for _, year := range c.Grid.Years {
		if year < 1998 || year > 2100 {
			return fmt.Errorf("grid.years contains implausible year %d", year)
		}
	}
	return nil
}

func (c *Config) validateRequest() error {
	if len(c.Request.Attributes) == 0 {
		return errors.New("request.attributes must list at least one attribute")
	}
	for _, attr := range c.Request.Attributes {
		if attr == "" {
			return errors.New("request.attributes must not contain empty entries")
		}
	}
	switch c.Request.Interval {
	case 30, 60:
		return nil
	default:
		return fmt.Errorf("request.interval must be 30 or 60 minutes, got %d", c.Request.Interval)
	}
}

func (c *Config) validateAcquire() error {
	if c.Acquire.Workers > 64 {
		return fmt.Errorf("acquire.workers %d is unreasonably high", c.Acquire.Workers)
	}
	if c.Acquire.RateBurst > 0 && c.Acquire.RateWindowSeconds <= 0 {
		return errors.New("acquire.rate_window_seconds must be set when acquire.rate_burst is")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not recognized", c.Logging.Level)
	}
	return nil
}

// Package config loads, normalizes, and validates gridpull configuration.
//
// Settings live in a TOML file; credentials never do. The NREL API key and
// requester identity come from the environment (NREL_API_KEY, NSRDB_EMAIL,
// NSRDB_FULL_NAME, NSRDB_AFFILIATION, NSRDB_REASON) so config files stay
// shareable. Load returns a fully expanded, validated Config; downstream
// code treats it as read-only.
package config

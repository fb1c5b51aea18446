// Package config provides Viper-based configuration loading for the combat engine.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ChanceConfig holds the base value and clamp range for one chance type
// (hit, critical, dodge, or block), all expressed as integer percentages.
type ChanceConfig struct {
	// Base is the starting percentage before stat and level modifiers.
	Base int `mapstructure:"base"`
	// Min is the lower clamp bound.
	Min int `mapstructure:"min"`
	// Max is the upper clamp bound.
	Max int `mapstructure:"max"`
}

// CombatConfig holds all fixed combat constants. Exact values are data, not
// design: callers tune them per campaign without touching engine code.
type CombatConfig struct {
	Hit   ChanceConfig `mapstructure:"hit"`
	Crit  ChanceConfig `mapstructure:"crit"`
	Dodge ChanceConfig `mapstructure:"dodge"`
	Block ChanceConfig `mapstructure:"block"`

	// BasePhysicalDamage is the flat base for physical attacks before stat scaling.
	BasePhysicalDamage float64 `mapstructure:"base_physical_damage"`
	// BaseMagicalDamage is the flat base for elemental attacks before stat scaling.
	BaseMagicalDamage float64 `mapstructure:"base_magical_damage"`
	// StatMultiplier scales the attacker's governing stat (STR or INT) into base damage.
	StatMultiplier float64 `mapstructure:"stat_multiplier"`
	// CritMultiplier is applied to modified damage on a critical hit.
	CritMultiplier float64 `mapstructure:"crit_multiplier"`
	// ArmorAbsorption is the fraction of physical damage that gets through armor.
	ArmorAbsorption float64 `mapstructure:"armor_absorption"`
	// MagicAbsorption is the fraction of elemental damage that gets through wards.
	MagicAbsorption float64 `mapstructure:"magic_absorption"`
	// ResistanceFactor is the extra multiplier applied when the defender
	// declares resistance to the exact incoming damage type.
	ResistanceFactor float64 `mapstructure:"resistance_factor"`
	// BlockReduction is the multiplier applied to final damage on a successful block.
	BlockReduction float64 `mapstructure:"block_reduction"`
	// LevelAdvantageStep is the per-level damage swing for level difference (symmetric).
	LevelAdvantageStep float64 `mapstructure:"level_advantage_step"`
	// MinDamage is the floor every computed damage value is clamped to.
	MinDamage int `mapstructure:"min_damage"`
	// MaxDamage is the ceiling every computed damage value is clamped to.
	MaxDamage int `mapstructure:"max_damage"`
	// MaxRounds bounds every engagement; reaching it without a kill is a draw.
	MaxRounds int `mapstructure:"max_rounds"`
}

// DatabaseConfig holds PostgreSQL connection settings for the battle report store.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// ScriptingConfig holds Lua damage-hook settings.
type ScriptingConfig struct {
	// Enabled toggles the Lua hook manager. When false, the script modifier is always 1.0.
	Enabled bool `mapstructure:"enabled"`
	// ScriptDir is the directory containing *.lua hook files.
	ScriptDir string `mapstructure:"script_dir"`
	// InstructionLimit caps Lua opcodes per hook call; 0 uses the package default.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// ContentConfig holds paths to YAML content definition directories.
type ContentConfig struct {
	// ClassDir contains class definition YAML files.
	ClassDir string `mapstructure:"class_dir"`
	// AbilityDir contains ability definition YAML files.
	AbilityDir string `mapstructure:"ability_dir"`
	// ItemDir contains weapon/armor definition YAML files.
	ItemDir string `mapstructure:"item_dir"`
}

// Config is the top-level application configuration.
type Config struct {
	Combat    CombatConfig    `mapstructure:"combat"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Scripting ScriptingConfig `mapstructure:"scripting"`
	Content   ContentConfig   `mapstructure:"content"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateCombat(c.Combat); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateDatabase(c.Database); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateScripting(c.Scripting); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateChance(name string, ch ChanceConfig) []string {
	var errs []string
	if ch.Base < 0 || ch.Base > 100 {
		errs = append(errs, fmt.Sprintf("combat.%s.base must be 0-100, got %d", name, ch.Base))
	}
	if ch.Min < 0 || ch.Min > 100 {
		errs = append(errs, fmt.Sprintf("combat.%s.min must be 0-100, got %d", name, ch.Min))
	}
	if ch.Max < 0 || ch.Max > 100 {
		errs = append(errs, fmt.Sprintf("combat.%s.max must be 0-100, got %d", name, ch.Max))
	}
	if ch.Min > ch.Max {
		errs = append(errs, fmt.Sprintf("combat.%s.min must not exceed combat.%s.max", name, name))
	}
	return errs
}

func validateCombat(cc CombatConfig) error {
	var errs []string
	errs = append(errs, validateChance("hit", cc.Hit)...)
	errs = append(errs, validateChance("crit", cc.Crit)...)
	errs = append(errs, validateChance("dodge", cc.Dodge)...)
	errs = append(errs, validateChance("block", cc.Block)...)

	if cc.BasePhysicalDamage < 0 {
		errs = append(errs, fmt.Sprintf("combat.base_physical_damage must be >= 0, got %g", cc.BasePhysicalDamage))
	}
	if cc.BaseMagicalDamage < 0 {
		errs = append(errs, fmt.Sprintf("combat.base_magical_damage must be >= 0, got %g", cc.BaseMagicalDamage))
	}
	if cc.StatMultiplier <= 0 {
		errs = append(errs, fmt.Sprintf("combat.stat_multiplier must be > 0, got %g", cc.StatMultiplier))
	}
	if cc.CritMultiplier < 1 {
		errs = append(errs, fmt.Sprintf("combat.crit_multiplier must be >= 1, got %g", cc.CritMultiplier))
	}
	if cc.ArmorAbsorption <= 0 || cc.ArmorAbsorption > 1 {
		errs = append(errs, fmt.Sprintf("combat.armor_absorption must be in (0, 1], got %g", cc.ArmorAbsorption))
	}
	if cc.MagicAbsorption <= 0 || cc.MagicAbsorption > 1 {
		errs = append(errs, fmt.Sprintf("combat.magic_absorption must be in (0, 1], got %g", cc.MagicAbsorption))
	}
	if cc.ResistanceFactor <= 0 || cc.ResistanceFactor > 1 {
		errs = append(errs, fmt.Sprintf("combat.resistance_factor must be in (0, 1], got %g", cc.ResistanceFactor))
	}
	if cc.BlockReduction < 0 || cc.BlockReduction > 1 {
		errs = append(errs, fmt.Sprintf("combat.block_reduction must be in [0, 1], got %g", cc.BlockReduction))
	}
	if cc.LevelAdvantageStep < 0 {
		errs = append(errs, fmt.Sprintf("combat.level_advantage_step must be >= 0, got %g", cc.LevelAdvantageStep))
	}
	if cc.MinDamage < 0 {
		errs = append(errs, fmt.Sprintf("combat.min_damage must be >= 0, got %d", cc.MinDamage))
	}
	if cc.MaxDamage < cc.MinDamage {
		errs = append(errs, "combat.max_damage must not be less than combat.min_damage")
	}
	if cc.MaxRounds < 1 {
		errs = append(errs, fmt.Sprintf("combat.max_rounds must be >= 1, got %d", cc.MaxRounds))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateScripting(s ScriptingConfig) error {
	var errs []string
	if s.Enabled && s.ScriptDir == "" {
		errs = append(errs, "scripting.script_dir must not be empty when scripting is enabled")
	}
	if s.InstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("scripting.instruction_limit must be >= 0, got %d", s.InstructionLimit))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with FABLEFORGE_ prefix
	v.SetEnvPrefix("FABLEFORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the built-in configuration used when no config file is supplied.
//
// Postcondition: Default().Validate() == nil.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Unmarshalling pure defaults cannot fail.
	_ = v.Unmarshal(&cfg)
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("combat.hit.base", 80)
	v.SetDefault("combat.hit.min", 10)
	v.SetDefault("combat.hit.max", 95)
	v.SetDefault("combat.crit.base", 5)
	v.SetDefault("combat.crit.min", 1)
	v.SetDefault("combat.crit.max", 50)
	v.SetDefault("combat.dodge.base", 10)
	v.SetDefault("combat.dodge.min", 2)
	v.SetDefault("combat.dodge.max", 40)
	v.SetDefault("combat.block.base", 5)
	v.SetDefault("combat.block.min", 2)
	v.SetDefault("combat.block.max", 35)

	v.SetDefault("combat.base_physical_damage", 5.0)
	v.SetDefault("combat.base_magical_damage", 8.0)
	v.SetDefault("combat.stat_multiplier", 1.5)
	v.SetDefault("combat.crit_multiplier", 2.0)
	v.SetDefault("combat.armor_absorption", 0.8)
	v.SetDefault("combat.magic_absorption", 0.9)
	v.SetDefault("combat.resistance_factor", 0.5)
	v.SetDefault("combat.block_reduction", 0.5)
	v.SetDefault("combat.level_advantage_step", 0.05)
	v.SetDefault("combat.min_damage", 1)
	v.SetDefault("combat.max_damage", 999)
	v.SetDefault("combat.max_rounds", 50)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "fableforge")
	v.SetDefault("database.password", "fableforge")
	v.SetDefault("database.name", "fableforge")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("scripting.enabled", false)
	v.SetDefault("scripting.script_dir", "content/scripts")
	v.SetDefault("scripting.instruction_limit", 0)

	v.SetDefault("content.class_dir", "content/classes")
	v.SetDefault("content.ability_dir", "content/abilities")
	v.SetDefault("content.item_dir", "content/items")
}

// Package main provides the combat simulator binary: it loads rule content,
// runs a full engagement between two combatants, and prints the round log
// and outcome summary. Reports can optionally be persisted to PostgreSQL.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/fableforge/engine/internal/config"
	"github.com/fableforge/engine/internal/game/actor"
	"github.com/fableforge/engine/internal/game/combat"
	"github.com/fableforge/engine/internal/game/item"
	"github.com/fableforge/engine/internal/game/rng"
	"github.com/fableforge/engine/internal/game/ruleset"
	"github.com/fableforge/engine/internal/observability"
	"github.com/fableforge/engine/internal/scripting"
	"github.com/fableforge/engine/internal/storage/postgres"
)

// fighterFile is the YAML description of one combatant and their loadout.
type fighterFile struct {
	ID          string      `yaml:"id"`
	Name        string      `yaml:"name"`
	Level       int         `yaml:"level"`
	MaxHP       int         `yaml:"max_hp"`
	HP          int         `yaml:"hp"`
	Class       string      `yaml:"class"`
	Stats       actor.Stats `yaml:"stats"`
	Resistances []string    `yaml:"resistances"`
	Weapon      string      `yaml:"weapon"`
	Armor       []string    `yaml:"armor"`
	Ability     string      `yaml:"ability"`
	DamageType  string      `yaml:"damage_type"`
}

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	classesDir := flag.String("classes-dir", "", "path to class YAML definitions directory; empty = configured default")
	abilitiesDir := flag.String("abilities-dir", "", "path to ability YAML definitions directory; empty = configured default")
	itemsDir := flag.String("items-dir", "", "path to item YAML definitions directory; empty = configured default")
	scriptDir := flag.String("scripts", "", "directory of Lua rule scripts; empty = configured default")
	attackerPath := flag.String("attacker", "", "path to the attacker's fighter YAML file (required)")
	defenderPath := flag.String("defender", "", "path to the defender's fighter YAML file (required)")
	rounds := flag.Int("rounds", 0, "round cap override (0 = configured maximum)")
	seed := flag.Int64("seed", 0, "deterministic roll seed (0 = crypto randomness)")
	store := flag.Bool("store", false, "persist the battle report to PostgreSQL")
	flag.Parse()

	if *attackerPath == "" || *defenderPath == "" {
		log.Fatal("both -attacker and -defender are required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	classes, err := loadClasses(orDefault(*classesDir, cfg.Content.ClassDir))
	if err != nil {
		logger.Fatal("loading classes", zap.Error(err))
	}
	abilities, err := loadAbilities(orDefault(*abilitiesDir, cfg.Content.AbilityDir))
	if err != nil {
		logger.Fatal("loading abilities", zap.Error(err))
	}

	catalog := &item.Catalog{}
	if dir := orDefault(*itemsDir, cfg.Content.ItemDir); dir != "" {
		if _, statErr := os.Stat(dir); statErr == nil {
			catalog, err = item.LoadCatalog(dir)
			if err != nil {
				logger.Fatal("loading item catalog", zap.Error(err))
			}
		}
	}

	var src rng.Source = rng.NewCryptoSource()
	if *seed != 0 {
		src = rng.NewSeededSource(*seed)
		logger.Info("using seeded rolls", zap.Int64("seed", *seed))
	}

	engine := combat.NewEngine(cfg.Combat, classes, abilities, src, logger)

	rulesDir := *scriptDir
	if rulesDir == "" && cfg.Scripting.Enabled {
		rulesDir = cfg.Scripting.ScriptDir
	}
	if rulesDir != "" {
		mgr := scripting.NewManager(rng.NewRoller(src, logger), logger)
		if err := mgr.Load(rulesDir, cfg.Scripting.InstructionLimit); err != nil {
			logger.Fatal("loading rule scripts", zap.Error(err))
		}
		defer mgr.Close()
		engine.SetDamageHook(scripting.NewDamageScript(mgr))
		logger.Info("rule scripts loaded", zap.String("dir", rulesDir))
	}

	attacker, err := loadFighter(*attackerPath, catalog)
	if err != nil {
		logger.Fatal("loading attacker", zap.Error(err))
	}
	defender, err := loadFighter(*defenderPath, catalog)
	if err != nil {
		logger.Fatal("loading defender", zap.Error(err))
	}
	for _, p := range []combat.Participant{attacker, defender} {
		if dt := p.Loadout.DamageType; dt != "" && !dt.Known() {
			logger.Warn("unknown damage type resolves to fallback damage",
				zap.String("fighter", p.Combatant.Name()),
				zap.String("damage_type", string(dt)),
			)
		}
	}

	roundCap := cfg.Combat.MaxRounds
	if *rounds > 0 {
		roundCap = *rounds
	}

	outcome, err := engine.FightRounds(attacker, defender, roundCap)
	if err != nil {
		logger.Fatal("resolving engagement", zap.Error(err))
	}

	printOutcome(outcome)

	if *store {
		if err := storeReport(cfg.Database, outcome); err != nil {
			logger.Fatal("storing battle report", zap.Error(err))
		}
		fmt.Printf("report %s stored\n", outcome.EngagementID)
	}

	observability.CombatLogger(logger, outcome.EngagementID).Info("simulation complete",
		zap.Duration("elapsed", time.Since(start)),
	)
}

// orDefault prefers the flag value over the configured fallback.
func orDefault(flagValue, configured string) string {
	if flagValue != "" {
		return flagValue
	}
	return configured
}

func loadClasses(dir string) (*ruleset.ClassRegistry, error) {
	if dir == "" {
		return ruleset.NewClassRegistry(ruleset.DefaultClasses()...), nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return ruleset.NewClassRegistry(ruleset.DefaultClasses()...), nil
	}
	defs, err := ruleset.LoadClasses(dir)
	if err != nil {
		return nil, err
	}
	return ruleset.NewClassRegistry(defs...), nil
}

func loadAbilities(dir string) (*ruleset.AbilityRegistry, error) {
	if dir == "" {
		return ruleset.NewAbilityRegistry(ruleset.DefaultAbilities()...), nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return ruleset.NewAbilityRegistry(ruleset.DefaultAbilities()...), nil
	}
	defs, err := ruleset.LoadAbilities(dir)
	if err != nil {
		return nil, err
	}
	return ruleset.NewAbilityRegistry(defs...), nil
}

// loadFighter reads a fighter YAML file and resolves its equipment against
// the item catalog.
func loadFighter(path string, catalog *item.Catalog) (combat.Participant, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return combat.Participant{}, fmt.Errorf("reading fighter file %q: %w", path, err)
	}

	var f fighterFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return combat.Participant{}, fmt.Errorf("parsing fighter file %q: %w", path, err)
	}
	if f.HP == 0 {
		f.HP = f.MaxHP
	}

	snapshot := &actor.Snapshot{
		UID:         f.ID,
		CharName:    f.Name,
		CharLevel:   f.Level,
		CurrentHP:   f.HP,
		MaximumHP:   f.MaxHP,
		Base:        f.Stats,
		Class:       f.Class,
		Resistances: f.Resistances,
	}

	loadout := combat.Loadout{
		Ability:    f.Ability,
		DamageType: combat.DamageType(f.DamageType),
	}
	if f.Weapon != "" {
		weapon, ok := catalog.Weapons[f.Weapon]
		if !ok {
			return combat.Participant{}, fmt.Errorf("fighter %q: unknown weapon %q", f.Name, f.Weapon)
		}
		loadout.Weapon = weapon
	}
	for _, armorID := range f.Armor {
		armor, ok := catalog.Armor[armorID]
		if !ok {
			return combat.Participant{}, fmt.Errorf("fighter %q: unknown armor %q", f.Name, armorID)
		}
		snapshot.Armor = append(snapshot.Armor, armor)
	}

	if err := snapshot.Validate(); err != nil {
		return combat.Participant{}, fmt.Errorf("fighter %q: %w", f.Name, err)
	}
	return combat.Participant{Combatant: snapshot, Loadout: loadout}, nil
}

func printOutcome(outcome *combat.CombatOutcome) {
	for _, rec := range outcome.Rounds {
		fmt.Printf("[round %2d] %s\n", rec.Round, rec.Message)
	}
	fmt.Println("---")
	fmt.Printf("outcome:        %s\n", outcome.Outcome)
	fmt.Printf("winner:         %s\n", outcome.Winner)
	fmt.Printf("rounds:         %d\n", outcome.TotalRounds)
	fmt.Printf("hits:           %d (%.0f%% hit rate)\n", outcome.TotalHits, outcome.HitRate*100)
	fmt.Printf("criticals:      %d\n", outcome.TotalCriticals)
	fmt.Printf("total damage:   %d\n", outcome.TotalDamage)
	fmt.Printf("average damage: %.1f\n", outcome.AverageDamage)
}

func storeReport(dbCfg config.DatabaseConfig, outcome *combat.CombatOutcome) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, dbCfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	repo := postgres.NewReportRepository(pool.DB())
	_, err = repo.Create(ctx, postgres.NewBattleReport(outcome))
	return err
}

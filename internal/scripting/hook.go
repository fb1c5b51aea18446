package scripting

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/fableforge/engine/internal/game/actor"
	"github.com/fableforge/engine/internal/game/combat"
)

// damageModifierHook is the well-known Lua function name consulted during
// damage resolution. Scripts define:
//
//	function damage_modifier(attacker, defender, ability, damage_type)
//	    return factor  -- positive number, multiplied into the pipeline
//	end
const damageModifierHook = "damage_modifier"

// DamageScript adapts a Manager to the combat engine's damage hook. A
// missing hook, a Lua error, or a non-positive return all leave the damage
// pipeline untouched.
type DamageScript struct {
	mgr *Manager
}

var _ combat.DamageHook = (*DamageScript)(nil)

// NewDamageScript wraps mgr as a combat damage hook.
//
// Precondition: mgr must be non-nil.
func NewDamageScript(mgr *Manager) *DamageScript {
	return &DamageScript{mgr: mgr}
}

// DamageModifier implements combat.DamageHook by calling the script hook
// with table views of both combatants.
//
// Postcondition: Returns (factor, true) only when the hook exists and
// returned a positive number; otherwise (1, false).
func (d *DamageScript) DamageModifier(attacker, defender actor.Combatant, ability, damageType string) (float64, bool) {
	// The tables must be built inside the VM's lock window to share its
	// allocator safely, so take a state snapshot up front.
	d.mgr.mu.Lock()
	L := d.mgr.state
	if L == nil {
		d.mgr.mu.Unlock()
		return 1, false
	}
	atkTable := combatantToTable(L, attacker)
	defTable := combatantToTable(L, defender)
	d.mgr.mu.Unlock()

	ret, ok, err := d.mgr.CallHook(damageModifierHook,
		atkTable,
		defTable,
		lua.LString(ability),
		lua.LString(damageType),
	)
	if err != nil || !ok {
		return 1, false
	}

	factor, isNum := ret.(lua.LNumber)
	if !isNum || float64(factor) <= 0 {
		return 1, false
	}
	return float64(factor), true
}

// combatantToTable builds the Lua view of a combatant: id, name, level, hp,
// max_hp, class, and a stats subtable.
func combatantToTable(L *lua.LState, c actor.Combatant) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "id", lua.LString(c.ID()))
	L.SetField(t, "name", lua.LString(c.Name()))
	L.SetField(t, "level", lua.LNumber(c.Level()))
	L.SetField(t, "hp", lua.LNumber(c.HP()))
	L.SetField(t, "max_hp", lua.LNumber(c.MaxHP()))
	L.SetField(t, "class", lua.LString(c.ClassTag()))

	stats := actor.StatsOrNeutral(c)
	st := L.NewTable()
	L.SetField(st, "strength", lua.LNumber(stats.Strength))
	L.SetField(st, "dexterity", lua.LNumber(stats.Dexterity))
	L.SetField(st, "intelligence", lua.LNumber(stats.Intelligence))
	L.SetField(st, "wisdom", lua.LNumber(stats.Wisdom))
	L.SetField(st, "charisma", lua.LNumber(stats.Charisma))
	L.SetField(st, "constitution", lua.LNumber(stats.Constitution))
	L.SetField(t, "stats", st)

	return t
}

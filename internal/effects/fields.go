package effects

import "github.com/zataralive/seraph-ultimo-login/internal/world"

// floatField resolves a numeric player attribute by name.
func floatField(p *world.Player, name string) *float64 {
	switch name {
	case "hp":
		return &p.HP
	case "max_hp":
		return &p.MaxHP
	case "speed":
		return &p.Speed
	case "jump_force":
		return &p.JumpForce
	case "attack_interval":
		return &p.AttackInterval
	case "damage":
		return &p.BaseDamage
	case "crit_chance":
		return &p.CritChance
	case "crit_mult":
		return &p.CritMult
	case "defense":
		return &p.Defense
	case "projectile_size":
		return &p.ProjectileSize
	case "invuln_on_hit":
		return &p.InvulnOnHit
	case "width":
		return &p.Box.W
	case "height":
		return &p.Box.H
	case "loot.heal_chance":
		return &p.Loot.HealChance
	case "loot.extra_heal_chance":
		return &p.Loot.ExtraHealChance
	case "loot.soul_chance":
		return &p.Loot.SoulChance
	case "sustain.life_steal":
		return &p.Sustain.LifeSteal
	case "sustain.regrowth":
		return &p.Sustain.Regrowth
	case "sustain.regen":
		return &p.Sustain.Regen
	case "sustain.degen_rate":
		return &p.Sustain.DegenRate
	case "thunder.cooldown":
		return &p.Thunder.Cooldown
	case "thunder.reset_chance":
		return &p.Thunder.ResetChance
	case "barrier.cooldown":
		return &p.Barrier.Cooldown
	case "friction.threshold":
		return &p.Friction.Threshold
	case "fragmentation.modifier":
		return &p.Fragmentation.Modifier
	case "vengeance.fear_duration":
		return &p.Vengeance.FearDuration
	case "intellect.conversion_chance":
		return &p.Intellect.ConversionChance
	case "intellect.conversion_mult":
		return &p.Intellect.ConversionMult
	case "intellect.aura_radius":
		return &p.Intellect.AuraRadius
	case "intellect.aura_slow":
		return &p.Intellect.AuraSlow
	case "abyss.vuln_per_stack":
		return &p.Abyss.VulnPerStack
	case "abyss.black_hole_chance":
		return &p.Abyss.BlackHoleChance
	case "flesh.contact_damage":
		return &p.Flesh.ContactDamage
	case "flesh.minion_interval":
		return &p.Flesh.MinionInterval
	case "hope.nullify_chance":
		return &p.Hope.NullifyChance
	case "hope.nullify_heal":
		return &p.Hope.NullifyHeal
	case "absurd.confuse_chance":
		return &p.Absurd.ConfuseChance
	case "absurd.confuse_duration":
		return &p.Absurd.ConfuseDuration
	case "absurd.teleport_on_hit":
		return &p.Absurd.TeleportOnHit
	case "absurd.duplicate_chance":
		return &p.Absurd.DuplicateChance
	case "transcendence.ethereal_duration":
		return &p.Transcendence.EtherealDuration
	case "transcendence.psychic_factor":
		return &p.Transcendence.PsychicFactor
	}
	return nil
}

// intField resolves a counter attribute by name.
func intField(p *world.Player, name string) *int {
	switch name {
	case "max_jumps":
		return &p.MaxJumps
	case "jumps_left":
		return &p.JumpsLeft
	case "piercing":
		return &p.Piercing
	case "thunder.per_activation":
		return &p.Thunder.PerActivation
	case "friction.launch":
		return &p.Friction.Launch
	case "fragmentation.count":
		return &p.Fragmentation.Count
	case "abyss.vuln_max_stacks":
		return &p.Abyss.VulnMaxStacks
	case "flesh.minion_cap":
		return &p.Flesh.MinionCap
	}
	return nil
}

// flagField resolves an on/off attribute by name.
func flagField(p *world.Player, name string) *bool {
	switch name {
	case "loot.soul_orbs":
		return &p.Loot.SoulOrbs
	case "loot.potent_orbs":
		return &p.Loot.PotentOrbs
	case "sustain.degen":
		return &p.Sustain.Degen
	case "barrier.enabled":
		return &p.Barrier.Enabled
	case "barrier.ready":
		return &p.Barrier.Ready
	case "fragmentation.enabled":
		return &p.Fragmentation.Enabled
	case "fragmentation.recoil":
		return &p.Fragmentation.Recoil
	case "vengeance.rage":
		return &p.Vengeance.Rage
	case "vengeance.fear_on_hit":
		return &p.Vengeance.FearOnHit
	case "vengeance.crit_bleed":
		return &p.Vengeance.CritBleed
	case "vengeance.crit_armor":
		return &p.Vengeance.CritArmor
	case "intellect.extra_choice":
		return &p.Intellect.ExtraChoice
	case "intellect.aura":
		return &p.Intellect.Aura
	case "abyss.vulnerability":
		return &p.Abyss.Vulnerability
	case "flesh.minions":
		return &p.Flesh.Minions
	case "hope.divine_intervention":
		return &p.Hope.DivineIntervention
	case "hope.divine_ready":
		return &p.Hope.DivineReady
	case "absurd.chaotic":
		return &p.Absurd.Chaotic
	case "absurd.unpredictable":
		return &p.Absurd.Unpredictable
	case "transcendence.ethereal":
		return &p.Transcendence.Ethereal
	case "transcendence.psychic":
		return &p.Transcendence.Psychic
	}
	return nil
}

// knownField reports whether name resolves for any field kind.
func knownField(name string) (numeric, counter, flag bool) {
	var probe world.Player
	return floatField(&probe, name) != nil, intField(&probe, name) != nil, flagField(&probe, name) != nil
}

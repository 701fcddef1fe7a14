// Package rules evaluates claim entities against policy rules.
//
// A rule is data: an identifier, a priority, and a set of typed conditions.
// Condition kinds form a closed set validated when the rule is built; a
// kind outside the set still evaluates as satisfied for forward
// compatibility, but every such evaluation is logged and counted so a
// misconfigured rule cannot pass silently.
//
// Validation is deterministic: the same entities and rules always produce
// the same satisfied and violated sets.
package rules

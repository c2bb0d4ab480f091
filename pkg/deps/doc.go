// Package deps resolves the runtime library set of a Maven-style coordinate.
//
// # Overview
//
// Starting from a root coordinate, the [Walker] reads each project's declared
// dependencies through a [MetadataSource], drops the ones that never ship
// (optional, provided- or test-scoped), fills in missing or placeholder
// versions, and folds everything it reaches into one ordered [Set]:
//
//	walker := deps.NewWalker(source, probe, deps.Options{})
//	set, err := walker.Resolve(ctx, deps.MustParseCoordinate("com.example:boot:1.0"))
//
// # Version Reconciliation
//
// A [Set] holds one coordinate per "groupId:artifactId". When a key is seen
// again, [IsUpgrade] decides whether the new version replaces the stored one.
// The entry keeps its position; only its version changes. Versions are split
// on "." and compared segment by segment, numerically where both segments are
// integers and lexically otherwise, so "1.10" beats "1.9" and "1.2.0" beats
// "1.2".
//
// # Placeholders and Probing
//
// A declared version of "${project.version}" takes the declaring project's
// own version; any other "${name}" is looked up in its properties. When the
// version is absent or cannot be resolved, the [VersionProbe] supplies the
// highest version present in the local repository.
//
// # Cycles
//
// A coordinate's dependencies are walked the first time its key enters the
// walk and never again, so cyclic declarations terminate. With
// [Options.RevisitUpgrades] the guard is keyed by the full coordinate
// instead, and a newly winning version has its own dependencies walked too.
//
// # Exclusions
//
// Exclusion declarations are recorded on each [Declaration] but ignored by
// default. [Options.EnforceExclusions] applies them to the whole subtree below
// the declaring dependency.
package deps

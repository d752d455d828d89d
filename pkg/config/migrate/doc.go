// Package migrate upgrades configuration documents written by older
// builds to the current schema version.
//
// Migration happens on the untyped key tree, before typed decoding, so a
// document whose shape predates the current model can still be read. The
// engine detects the document's version (explicit tag first, structural
// fingerprint otherwise, oldest version when nothing matches), then
// applies the ordered chain of steps from that version forward. Each
// applied step leaves the tree tagged with its target version.
//
//	engine := migrate.NewEngine(logger)
//	result, err := engine.Run(tree)
//	if err != nil {
//		// no migration path: unreadable or unknown version tag
//	}
//	cfg, err := config.FromTree(result.Tree)
//
// Documents tagged with a version newer than the build are loaded as-is
// with a warning; unknown fields are dropped by decoding, and the known
// ones behave normally. Saving such a document rewrites it at the current
// version, so downgrade-then-save loses the newer build's additions.
package migrate

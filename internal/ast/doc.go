// Package ast defines the rule-expression tree for annotation constraints.
//
// This package contains type definitions only. parser produces these types
// and eval consumes them; ast imports nothing internal. This keeps the AST
// the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Integer-only arithmetic; there is no float node and never will be
//   - Every non-leaf node exclusively owns its children: trees, no sharing,
//     no cycles
//   - A parsed rule set is immutable and safe to share across goroutines
package ast

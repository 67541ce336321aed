// Package logicfile resolves the path of the logic file that
// accompanies a script template. An explicit path wins
// verbatim; otherwise the path is derived by stripping the
// template suffix from the template path and appending the
// logic suffix. Resolution is pure and performs no file
// system access.
package logicfile

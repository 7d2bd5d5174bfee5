// Package script runs Lua scripts against a document.
//
// Scripts see a single global table, doc, whose functions edit the
// document and move its caret. Lines and columns are 1-based on the Lua
// side, matching Lua's own string and table indexing.
//
//	doc.insert("hello")
//	doc.left(2)
//	doc.decorate(1, 1, 1, 1, 3)
//	print(doc.text())
//
// Only the base, table, string and math libraries are available. Scripts
// cannot load other code or reach the file system.
package script

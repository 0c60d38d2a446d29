// Package convert turns a generic parsed document into a typed
// configuration tree, resolving placeholders in mapping values.
package convert

// Package vars understands the Ninja placeholder language used in rule
// templates: it finds the variables a template references, rejects stray
// unescaped dollar signs, and expands templates against variable tables.
//
// Two reference forms are recognised, `$name` and `${name}`, where name is
// drawn from [A-Za-z0-9_]. A literal dollar sign is written `$$`.
package vars

// Package host models the managed runtime on the far side of the boundary:
// tagged values, record and enum classes, and the call machinery used to
// read fields, invoke accessor methods, allocate instances and raise
// exceptions. The bridge only ever touches foreign data through Env.
package host

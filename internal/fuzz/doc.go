// Package fuzztests houses Go fuzz harnesses for the front half of the
// pipeline (source -> lexer -> grammar -> lowering). They guard against
// panics, hangs and span corruption on arbitrary inputs.
package fuzztests

//go:build !multisetdebug

package multiset

const debug = false

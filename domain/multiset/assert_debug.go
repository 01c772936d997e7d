//go:build multisetdebug

package multiset

// debug makes every mutation re-verify the whole tree.
const debug = true

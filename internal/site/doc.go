// Package site reads facts about the WordPress install next to which wpbt
// runs (installed version, plugin and theme headers) and builds the admin
// links and notices shown to operators.
package site

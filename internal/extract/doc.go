// Package extract turns a parsed cafeteria page into a meal.Result.
//
// Two page layouts are supported: the older table layout (table.menu-list, one
// row per meal) and the card layout (.view-yemek-listesi, one .views-row card per
// meal). The layout is resolved once, then rows are enumerated, classified as lunch
// or dinner, and mined for menu items. Rows that cannot be classified or yield no
// items are skipped; a later row for the same meal replaces an earlier one.
package extract

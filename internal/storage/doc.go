// Package storage provides JSON-based persistence for fetched menus.
//
// Menus are kept in a single snapshot file (menus.json) keyed by DD/MM/YYYY date.
// Raw page bodies can optionally be kept under pages/YYYY-MM-DD.html for
// inspecting layout changes on the cafeteria site.
// The default storage location is ~/.local/share/menucal/.
package storage

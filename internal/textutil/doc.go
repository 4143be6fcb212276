// Package textutil turns recording names and operator answers into clip
// filename parts, and stored labels into display text.
//
// ClipStem and LabelToken keep user-entered stems and labels safe to embed in
// clip filenames. Display helpers turn snake_case label values such as "no_drone"
// or "4_motors" into headings for tables and menus.
package textutil

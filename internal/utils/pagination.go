// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import "strconv"

// AtoiDefault converts a string to an int using strconv.Atoi.
// If the string is empty or cannot be parsed as an integer,
// it returns the provided default value instead.
//
// Example:
//
//	n := utils.AtoiDefault("42", 0) // returns 42
//	n = utils.AtoiDefault("", 10)   // returns 10
//	n = utils.AtoiDefault("x", 5)   // returns 5
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// Offset normalizes a 1-based page and page size and returns them together
// with the row offset. page < 1 becomes 1 and pageSize <= 0 becomes def.
//
// Example:
//
//	page, size, off := utils.Offset(3, 20, 20) // 3, 20, 40
//	page, size, off = utils.Offset(0, 0, 20)   // 1, 20, 0
func Offset(page, pageSize, def int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = def
	}
	return page, pageSize, (page - 1) * pageSize
}

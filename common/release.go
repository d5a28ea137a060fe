//go:build !dev

package common

const Development = false

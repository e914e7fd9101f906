// Package sts looks up the caller identity so the operator principal can be
// taken from the running credentials instead of a parameter.
package sts

// Package database declares the relational store: a generated credential
// secret, a security scope and an Aurora PostgreSQL cluster.
package database

// Package models defines the domain model of the todo service.
//
// There is a single entity, Todo. Its identity is the store-assigned ID:
// a Todo that has never been persisted has no ID and is not equal to any
// other Todo, including one with identical field values. Use Equal rather
// than == when comparing todos.
package models

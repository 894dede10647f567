// Package domain contains the core entities of the DocQuery engine:
// chunks, indexed documents, typed metadata, search results and answers.
// Entities carry no infrastructure dependencies.
package domain

// Package cli implements the interactive diet client: a read-eval-print loop
// over the REST API.
//
// Commands
//
//	signup           create an account (and sign in)
//	signin           sign in with email and password
//	signout          end the current session
//	add              record a meal
//	list | l         list your meals
//	metrics          show total/in/out counts and the best in-diet streak
//	delete <id>      delete a meal
//	export           export meals to object storage and download the file
//	help             show available commands
//	exit | quit      leave the program
package cli

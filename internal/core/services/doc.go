// Package services implements the driving port interfaces.
//
// IngestionService seeds the condition store once. SearchService embeds a
// query and asks the store for its nearest neighbours. ChatService reuses
// that lookup, formats the matches into a medical context block and asks
// the language model for a grounded answer.
//
// Services depend only on driven ports and contain no provider or storage
// specifics.
package services

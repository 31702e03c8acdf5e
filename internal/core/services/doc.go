// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// IngestService runs extract, chunk, embed and upsert for each document.
// SearchService embeds a query and asks the vector store for neighbours.
// SettingsService maps dotted config keys onto domain.AppSettings.
package services

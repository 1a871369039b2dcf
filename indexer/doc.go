/*
Package indexer follows ScorerFactory notifications and keeps the scorer
directory in the SQL database.

Indexer polls the blockchain for new blocks, decodes factory notifications
from the application logs of the block transactions and applies them to the
Store. Each applied notification is published as a JSON message to the
message broker (see NewPublisher) and the directory is served over HTTP by the
handler returned from NewAPI.

Topics:
  - scorer.created
  - scorer.removed
  - scorer.manager.changed
*/
package indexer

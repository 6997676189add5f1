/*
Package wallet manages wallet lifecycle and membership.

The service covers:
  - Wallet creation (personal, joint, savings) with overdraft defaults
  - Cached wallet reads with ownership checks
  - Joint-wallet membership
  - Overdraft enablement on personal wallets

Balances are deliberately not mutated here. Every balance change flows
through the transaction processor's commit path or the monthly maintenance
job, both of which lock the wallet row for the duration of the change.
*/
package wallet

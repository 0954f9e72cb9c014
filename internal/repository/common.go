package repository

// insertBatchSize bounds the rows of one INSERT so a bulk insert stays under
// the placeholder limit of mysql prepared statements.
const insertBatchSize = 500

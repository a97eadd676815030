// dynafetch offers a fetch-or-create operation for AWS DynamoDB tables keyed by a single partition key.
//
// Given a JSON item and the name of its partition key field, the engine queries the table for
// records with that key. When none exists the item is inserted, when exactly one exists it is
// returned unchanged, and when more than one exists a TooManyRecordsError is returned as the table
// has broken the uniqueness this tool relies on.
//
// The query and the insert are not performed in a transaction, a concurrent writer may create the
// same key in between. WriteIfNotExists adds a conditional write which turns that race into ErrKeyExists.
//
// To setup a session and fetch or create an item.
//
//     session, err := dynafetch.NewWithOptions(&aws.Config{})
//     if err != nil {
//         log.Fatal(err)
//     }
//
//     engine := dynafetch.NewEngine(session)
//
//     res, err := engine.FetchOrCreate(ctx, "Users", `{"id":42,"name":"Ana"}`, "id")
//     if err != nil {
//         var tooMany *dynafetch.TooManyRecordsError
//         if errors.As(err, &tooMany) {
//             log.Printf("duplicate key: %s", tooMany.Key)
//         }
//     }
//
package dynafetch

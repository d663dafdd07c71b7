// Package bundling groups semantically related pending notifications for one
// user into a single deliverable unit. Each notification's content is embedded
// through the similarity oracle and compared against the representative
// embedding of every open group; cosine similarity at or above the threshold
// (0.85 by default, inclusive) joins the group, anything below opens a new one.
//
// The first-inserted notification of a group becomes the carrier; everyone
// else is absorbed into the carrier's payload and short-circuited to sent by
// the scheduler without a delivery attempt. Oracle failures are non-fatal: the
// affected notification simply stays ungrouped.
package bundling

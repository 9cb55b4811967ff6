/*
The sync package keeps a project space and a fileserver mount consistent.
It builds the mirroring job (an rsync-style datamover invocation) and
gates it behind a safety classification.

A sync request is dangerous when it deletes destination-only files,
overwrites files that are newer than their source counterpart, or mirrors
two whole tier roots against each other (which risks clobbering other
users' data on a shared project space or group share). Dangerous requests
that aren't explicitly confirmed are downgraded to a dry run: the report
of what would have changed is collected and returned inside a
ConfirmationRequired error, so callers can inspect it and decide whether
to confirm.

Dry runs themselves are never dangerous, because they cannot mutate
either tree.
*/
package sync

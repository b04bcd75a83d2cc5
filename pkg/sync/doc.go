/*
The sync package implements lessonctl's sync-with-preservation algorithm.
It refreshes a lesson directory from its upstream source while guaranteeing
that files matching the preservation pattern set survive byte-for-byte, even
though the refresh is implemented as a destructive directory overwrite.

Each sync of one lesson runs the following steps in order:

1) Validate  -- the lesson directory must exist.
2) Backup    -- every preserved path is copied into a timestamped directory
   under the lesson's reserved backup location.
3) Fetch     -- a fresh copy of the upstream source is retrieved into a
   temporary directory outside the lesson. A fetch failure aborts the sync
   before anything destructive happens.
4) Replace   -- everything directly under the lesson directory is deleted,
   except the backup location and the lesson info file, and the fetched tree
   is copied in.
5) Restore   -- the backup is copied back on top of the fresh contents.
   Restore is strictly the last write, so preserved files always win
   conflicts against upstream files of the same name.
6) Finalize  -- the lesson's last synced date is recorded in the catalog.

Backups are retained as history. They're never deleted by the engine, so a
failed restore can always be recovered from by hand.
*/
package sync
